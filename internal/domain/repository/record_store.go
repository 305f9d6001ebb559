package repository

import (
	"context"

	"travelctx-service/internal/domain/entity"
)

// Record families persisted by the store, one durable record per
// (family, userId) pair.
const (
	FamilyProfiles     = "profiles"
	FamilyBookings     = "booking_history"
	FamilyConversation = "conversation_context"
	FamilyAggregates   = "preference_aggregates"
)

// Families lists every record family, in erasure order
var Families = []string{FamilyProfiles, FamilyBookings, FamilyConversation, FamilyAggregates}

// RecordStore is the durable keyed store for the four record families.
// Load returns (nil, nil) when no record exists for the user; Save replaces
// the user's record atomically, so readers never observe a partial write.
// Implementations surface entity.ErrStorageUnavailable for I/O failures and
// entity.ErrCorruptRecord for undecodable records.
type RecordStore interface {
	LoadProfile(ctx context.Context, userID string) (*entity.TravelerProfile, error)
	SaveProfile(ctx context.Context, profile *entity.TravelerProfile) error

	LoadBookingLog(ctx context.Context, userID string) (*entity.BookingLog, error)
	SaveBookingLog(ctx context.Context, log *entity.BookingLog) error

	LoadConversation(ctx context.Context, userID string) (*entity.ConversationWindow, error)
	SaveConversation(ctx context.Context, window *entity.ConversationWindow) error

	LoadAggregate(ctx context.Context, userID string) (*entity.PreferenceAggregate, error)
	SaveAggregate(ctx context.Context, aggregate *entity.PreferenceAggregate) error

	// Erase removes the user's record from every family. A failure that
	// leaves some families behind surfaces entity.ErrPartialErasure.
	Erase(ctx context.Context, userID string) error
}
