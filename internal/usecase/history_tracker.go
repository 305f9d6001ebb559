package usecase

import (
	"context"
	"sort"
	"time"

	"travelctx-service/internal/domain/entity"
	"travelctx-service/internal/domain/repository"
	"travelctx-service/pkg/logger"
	"travelctx-service/pkg/userlock"
	"travelctx-service/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultTopRoutes bounds popular-route results when the caller gives no topN
const DefaultTopRoutes = 5

// AggregateUpdater consumes confirmed bookings downstream of the log append.
// OnConfirmedBooking is invoked while the caller holds the user's write
// lock; MarkStale flags the aggregate for lazy rebuild when the incremental
// update failed.
type AggregateUpdater interface {
	OnConfirmedBooking(ctx context.Context, userID string, event entity.BookingEvent) error
	MarkStale(ctx context.Context, userID string) error
}

// HistoryTracker owns the append-only per-user booking log and the
// route-frequency ranking derived from it
type HistoryTracker struct {
	store     repository.RecordStore
	updater   AggregateUpdater
	locks     *userlock.Registry
	logger    logger.Logger
	topRoutes int
}

// NewHistoryTracker creates a new history tracker
func NewHistoryTracker(
	store repository.RecordStore,
	updater AggregateUpdater,
	locks *userlock.Registry,
	logger logger.Logger,
	topRoutes int,
) *HistoryTracker {
	if topRoutes <= 0 {
		topRoutes = DefaultTopRoutes
	}
	return &HistoryTracker{
		store:     store,
		updater:   updater,
		locks:     locks,
		logger:    logger,
		topRoutes: topRoutes,
	}
}

// validateBooking rejects malformed events before anything is persisted,
// normalizing route codes in place
func validateBooking(event *entity.BookingEvent) error {
	if event.UserID == "" {
		return &entity.ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	from := utils.NormalizeLocationCode(event.From)
	if from == "" {
		return &entity.ValidationError{Field: "from", Reason: "must be a three-letter location code"}
	}
	to := utils.NormalizeLocationCode(event.To)
	if to == "" {
		return &entity.ValidationError{Field: "to", Reason: "must be a three-letter location code"}
	}
	if event.Price.Amount < 0 {
		return &entity.ValidationError{Field: "price.amount", Reason: "must not be negative"}
	}
	switch event.Status {
	case entity.BookingConfirmed, entity.BookingCancelled, entity.BookingPending:
	default:
		return &entity.ValidationError{Field: "status", Reason: "must be confirmed, cancelled or pending"}
	}
	event.From = from
	event.To = to
	return nil
}

// AddBooking validates and appends an event to the user's log, then forwards
// confirmed events to the aggregate updater. The log is the source of truth:
// when the aggregate update fails after a successful append, the entry is
// kept and the aggregate is marked stale for lazy rebuild on next read.
func (ht *HistoryTracker) AddBooking(ctx context.Context, event entity.BookingEvent) (*entity.BookingEvent, error) {
	if err := validateBooking(&event); err != nil {
		return nil, err
	}
	if event.ID == "" {
		// ObjectIDs are unique and creation-ordered
		event.ID = primitive.NewObjectID().Hex()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.PassengerCount <= 0 {
		event.PassengerCount = 1
	}

	unlock := ht.locks.Acquire(event.UserID)
	defer unlock()

	log, err := ht.store.LoadBookingLog(ctx, event.UserID)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = &entity.BookingLog{UserID: event.UserID}
	}
	log.Bookings = append(log.Bookings, event)
	log.UpdatedAt = time.Now()

	if err := ht.store.SaveBookingLog(ctx, log); err != nil {
		return nil, err
	}

	if event.Status == entity.BookingConfirmed {
		if err := ht.updater.OnConfirmedBooking(ctx, event.UserID, event); err != nil {
			ht.logger.Warn("Aggregate update failed, marking stale",
				"userId", event.UserID, "bookingId", event.ID, "error", err)
			if staleErr := ht.updater.MarkStale(ctx, event.UserID); staleErr != nil {
				ht.logger.Error("Failed to mark aggregate stale",
					"userId", event.UserID, "error", staleErr)
			}
		}
	}

	ht.logger.Info("Appended booking event",
		"userId", event.UserID, "bookingId", event.ID, "route", event.Route(), "status", event.Status)
	return &event, nil
}

// GetHistory returns the user's bookings most recent first, bounded by
// limit; an absent user yields an empty sequence
func (ht *HistoryTracker) GetHistory(ctx context.Context, userID string, limit int) ([]entity.BookingEvent, error) {
	log, err := ht.store.LoadBookingLog(ctx, userID)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return []entity.BookingEvent{}, nil
	}

	events := make([]entity.BookingEvent, len(log.Bookings))
	for i, event := range log.Bookings {
		events[len(log.Bookings)-1-i] = event
	}
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}
	return events, nil
}

// RouteStats returns the full route ranking over confirmed bookings,
// ordered by (count desc, lastSeen desc, route asc)
func (ht *HistoryTracker) RouteStats(ctx context.Context, userID string) ([]entity.RouteRank, error) {
	log, err := ht.store.LoadBookingLog(ctx, userID)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return []entity.RouteRank{}, nil
	}

	byRoute := make(map[string]*entity.RouteRank)
	for _, event := range log.Bookings {
		if event.Status != entity.BookingConfirmed {
			continue
		}
		route := event.Route()
		rank, ok := byRoute[route]
		if !ok {
			rank = &entity.RouteRank{Route: route}
			byRoute[route] = rank
		}
		rank.Count++
		if event.Timestamp.After(rank.LastSeen) {
			rank.LastSeen = event.Timestamp
		}
	}

	ranks := make([]entity.RouteRank, 0, len(byRoute))
	for _, rank := range byRoute {
		ranks = append(ranks, *rank)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Count != ranks[j].Count {
			return ranks[i].Count > ranks[j].Count
		}
		if !ranks[i].LastSeen.Equal(ranks[j].LastSeen) {
			return ranks[i].LastSeen.After(ranks[j].LastSeen)
		}
		return ranks[i].Route < ranks[j].Route
	})
	return ranks, nil
}

// GetPopularRoutes returns the topN entries of the route ranking; topN
// defaults to the tracker's configured bound when not positive
func (ht *HistoryTracker) GetPopularRoutes(ctx context.Context, userID string, topN int) ([]entity.RouteRank, error) {
	ranks, err := ht.RouteStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = ht.topRoutes
	}
	if topN < len(ranks) {
		ranks = ranks[:topN]
	}
	return ranks, nil
}
