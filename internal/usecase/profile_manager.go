package usecase

import (
	"context"
	"fmt"
	"time"

	"travelctx-service/internal/domain/entity"
	"travelctx-service/internal/domain/repository"
	"travelctx-service/pkg/logger"
	"travelctx-service/pkg/userlock"
	"travelctx-service/pkg/utils"
)

// ProfileManager handles traveler profile CRUD with consent and shallow
// merge semantics
type ProfileManager struct {
	store  repository.RecordStore
	locks  *userlock.Registry
	logger logger.Logger
}

// NewProfileManager creates a new profile manager
func NewProfileManager(
	store repository.RecordStore,
	locks *userlock.Registry,
	logger logger.Logger,
) *ProfileManager {
	return &ProfileManager{
		store:  store,
		locks:  locks,
		logger: logger,
	}
}

// validateDocuments checks that document expiry dates, when present, are
// valid calendar dates
func validateDocuments(documents []entity.TravelDocument) error {
	for i, doc := range documents {
		if doc.ExpiresAt == "" {
			continue
		}
		if _, err := time.Parse(utils.ISO_DATE_LAYOUT, doc.ExpiresAt); err != nil {
			return &entity.ValidationError{
				Field:  fmt.Sprintf("documents[%d].expiresAt", i),
				Reason: "not a valid calendar date, expected YYYY-MM-DD",
			}
		}
	}
	return nil
}

// Create persists a new profile, failing when one already exists
func (pm *ProfileManager) Create(ctx context.Context, userID string, profile entity.TravelerProfile) (*entity.TravelerProfile, error) {
	if userID == "" {
		return nil, &entity.ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	if err := validateDocuments(profile.Documents); err != nil {
		return nil, err
	}

	unlock := pm.locks.Acquire(userID)
	defer unlock()

	existing, err := pm.store.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: profile for %s", entity.ErrAlreadyExists, userID)
	}

	now := time.Now()
	profile.UserID = userID
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if err := pm.store.SaveProfile(ctx, &profile); err != nil {
		return nil, err
	}

	pm.logger.Info("Created traveler profile", "userId", userID)
	return &profile, nil
}

// Get returns the profile for a user, (nil, nil) when absent
func (pm *ProfileManager) Get(ctx context.Context, userID string) (*entity.TravelerProfile, error) {
	return pm.store.LoadProfile(ctx, userID)
}

// GetOrFail returns the profile or ErrNotFound; the fetch-or-fail variant
// for administrative lookups by known id
func (pm *ProfileManager) GetOrFail(ctx context.Context, userID string) (*entity.TravelerProfile, error) {
	profile, err := pm.store.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile for %s", entity.ErrNotFound, userID)
	}
	return profile, nil
}

// Update applies a shallow partial update: non-nil top-level fields replace
// the stored value wholesale, nested objects are never deep-merged. Updates
// touching contact or preference fields require consent. The profile is
// created on first write (upsert).
func (pm *ProfileManager) Update(ctx context.Context, userID string, update entity.ProfileUpdate, consentGiven bool) (*entity.TravelerProfile, error) {
	if userID == "" {
		return nil, &entity.ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	if update.TouchesProtected() && !consentGiven {
		return nil, entity.ErrConsentRequired
	}
	if err := validateDocuments(update.Documents); err != nil {
		return nil, err
	}

	unlock := pm.locks.Acquire(userID)
	defer unlock()

	profile, err := pm.store.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if profile == nil {
		profile = &entity.TravelerProfile{UserID: userID, CreatedAt: now}
	}

	if update.PersonalInfo != nil {
		profile.PersonalInfo = *update.PersonalInfo
	}
	if update.Documents != nil {
		profile.Documents = update.Documents
	}
	if update.SeatPreference != nil {
		profile.SeatPreference = *update.SeatPreference
	}
	if update.MealPreference != nil {
		profile.MealPreference = *update.MealPreference
	}
	if update.AssistanceNeeds != nil {
		profile.AssistanceNeeds = update.AssistanceNeeds
	}
	if update.LoyaltyPrograms != nil {
		profile.LoyaltyPrograms = update.LoyaltyPrograms
	}
	if update.PreferredClass != nil {
		profile.PreferredClass = *update.PreferredClass
	}
	if update.MaxBudget != nil {
		profile.MaxBudget = update.MaxBudget
	}
	profile.UpdatedAt = now

	if err := pm.store.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	pm.logger.Info("Updated traveler profile", "userId", userID)
	return profile, nil
}
