package usecase

import (
	"context"
	"time"

	"travelctx-service/internal/domain/entity"
	"travelctx-service/internal/domain/repository"
	"travelctx-service/pkg/logger"
	"travelctx-service/pkg/userlock"
)

// DefaultWindowCapacity bounds the per-user conversation window
const DefaultWindowCapacity = 50

// ConversationTracker keeps the bounded per-user window of recent turns.
// Turn content is opaque here; only the timestamp is checked. Eviction is a
// context-window policy, not a privacy deletion.
type ConversationTracker struct {
	store    repository.RecordStore
	locks    *userlock.Registry
	logger   logger.Logger
	capacity int
}

// NewConversationTracker creates a new conversation tracker; capacity falls
// back to DefaultWindowCapacity when not positive
func NewConversationTracker(
	store repository.RecordStore,
	locks *userlock.Registry,
	logger logger.Logger,
	capacity int,
) *ConversationTracker {
	if capacity <= 0 {
		capacity = DefaultWindowCapacity
	}
	return &ConversationTracker{
		store:    store,
		locks:    locks,
		logger:   logger,
		capacity: capacity,
	}
}

// RecordTurn appends a turn to the user's window, evicting the oldest turns
// once capacity is exceeded (strict FIFO)
func (ct *ConversationTracker) RecordTurn(ctx context.Context, userID string, turn entity.ConversationTurn) error {
	if userID == "" {
		return &entity.ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	if turn.Timestamp.IsZero() {
		return &entity.ValidationError{Field: "timestamp", Reason: "must be present"}
	}

	unlock := ct.locks.Acquire(userID)
	defer unlock()

	window, err := ct.store.LoadConversation(ctx, userID)
	if err != nil {
		return err
	}
	if window == nil {
		window = &entity.ConversationWindow{UserID: userID}
	}
	window.Turns = append(window.Turns, turn)
	if overflow := len(window.Turns) - ct.capacity; overflow > 0 {
		window.Turns = window.Turns[overflow:]
	}
	window.UpdatedAt = time.Now()

	return ct.store.SaveConversation(ctx, window)
}

// GetRecent returns the user's turns most recent first, bounded by limit;
// an absent user yields an empty sequence
func (ct *ConversationTracker) GetRecent(ctx context.Context, userID string, limit int) ([]entity.ConversationTurn, error) {
	window, err := ct.store.LoadConversation(ctx, userID)
	if err != nil {
		return nil, err
	}
	if window == nil {
		return []entity.ConversationTurn{}, nil
	}

	turns := make([]entity.ConversationTurn, len(window.Turns))
	for i, turn := range window.Turns {
		turns[len(window.Turns)-1-i] = turn
	}
	if limit > 0 && limit < len(turns) {
		turns = turns[:limit]
	}
	return turns, nil
}
