package usecase

import (
	"context"

	"travelctx-service/internal/domain/entity"
	"travelctx-service/internal/domain/repository"
	"travelctx-service/pkg/logger"
	"travelctx-service/pkg/userlock"
)

// PrivacyService implements the data-subject operations: export everything
// held for a user and erase it across all record families.
type PrivacyService struct {
	store  repository.RecordStore
	locks  *userlock.Registry
	logger logger.Logger
}

// NewPrivacyService creates a new privacy service
func NewPrivacyService(
	store repository.RecordStore,
	locks *userlock.Registry,
	logger logger.Logger,
) *PrivacyService {
	return &PrivacyService{
		store:  store,
		locks:  locks,
		logger: logger,
	}
}

// Export returns the union of all four record families for a user. A corrupt
// record is fatal here: an export that silently drops data would break the
// disclosure contract.
func (ps *PrivacyService) Export(ctx context.Context, userID string) (*entity.UserDataExport, error) {
	export := &entity.UserDataExport{UserID: userID}

	profile, err := ps.store.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	export.Profile = profile

	log, err := ps.store.LoadBookingLog(ctx, userID)
	if err != nil {
		return nil, err
	}
	if log != nil {
		export.Bookings = log.Bookings
	}

	window, err := ps.store.LoadConversation(ctx, userID)
	if err != nil {
		return nil, err
	}
	if window != nil {
		export.Conversation = window.Turns
	}

	aggregate, err := ps.store.LoadAggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	export.Aggregate = aggregate

	return export, nil
}

// Erase removes every record family for the user. A partial failure
// surfaces as ErrPartialErasure and must be retried: leaving partial
// personal data behind violates the deletion contract.
func (ps *PrivacyService) Erase(ctx context.Context, userID string) error {
	if userID == "" {
		return &entity.ValidationError{Field: "userId", Reason: "must not be empty"}
	}

	unlock := ps.locks.Acquire(userID)
	defer unlock()

	if err := ps.store.Erase(ctx, userID); err != nil {
		return err
	}
	ps.logger.Info("Erased all user data", "userId", userID)
	return nil
}
