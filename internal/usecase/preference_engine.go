package usecase

import (
	"context"

	"travelctx-service/internal/domain/entity"
	"travelctx-service/internal/domain/repository"
	"travelctx-service/pkg/logger"
	"travelctx-service/pkg/userlock"
)

// PreferenceEngine maintains the derived per-user preference aggregates.
// Every update is a commutative counter increment or a streaming-moment
// fold, so replaying the booking log from scratch always reproduces the
// incrementally built aggregate.
type PreferenceEngine struct {
	store             repository.RecordStore
	converter         repository.CurrencyConverter
	locks             *userlock.Registry
	logger            logger.Logger
	referenceCurrency string
}

// NewPreferenceEngine creates a new preference engine
func NewPreferenceEngine(
	store repository.RecordStore,
	converter repository.CurrencyConverter,
	locks *userlock.Registry,
	logger logger.Logger,
	referenceCurrency string,
) *PreferenceEngine {
	if referenceCurrency == "" {
		referenceCurrency = "USD"
	}
	return &PreferenceEngine{
		store:             store,
		converter:         converter,
		locks:             locks,
		logger:            logger,
		referenceCurrency: referenceCurrency,
	}
}

// normalize guards against nil maps and a missing reference currency on
// aggregates decoded from storage
func (pe *PreferenceEngine) normalize(aggregate *entity.PreferenceAggregate) {
	if aggregate.RouteFrequency == nil {
		aggregate.RouteFrequency = make(map[string]entity.FrequencyStat)
	}
	if aggregate.CarrierFrequency == nil {
		aggregate.CarrierFrequency = make(map[string]entity.FrequencyStat)
	}
	if aggregate.ClassFrequency == nil {
		aggregate.ClassFrequency = make(map[string]int64)
	}
	if aggregate.BudgetStats.Currency == "" {
		aggregate.BudgetStats.Currency = pe.referenceCurrency
	}
}

// apply folds one confirmed booking into the aggregate. Shared by the
// incremental path and the replay path so the two cannot diverge. A
// currency-conversion failure skips only the budget fold; route, carrier
// and class counters still apply.
func (pe *PreferenceEngine) apply(ctx context.Context, aggregate *entity.PreferenceAggregate, event entity.BookingEvent) {
	route := aggregate.RouteFrequency[event.Route()]
	route.Count++
	if event.Timestamp.After(route.LastSeen) {
		route.LastSeen = event.Timestamp
	}
	aggregate.RouteFrequency[event.Route()] = route

	if event.Carrier != "" {
		carrier := aggregate.CarrierFrequency[event.Carrier]
		carrier.Count++
		if event.Timestamp.After(carrier.LastSeen) {
			carrier.LastSeen = event.Timestamp
		}
		aggregate.CarrierFrequency[event.Carrier] = carrier
	}

	if event.CabinClass != "" {
		aggregate.ClassFrequency[event.CabinClass]++
	}

	normalized, err := pe.converter.Convert(ctx, event.Price.Amount, event.Price.Currency, aggregate.BudgetStats.Currency)
	if err != nil {
		pe.logger.Warn("Currency conversion failed, skipping budget update",
			"userId", event.UserID, "bookingId", event.ID,
			"currency", event.Price.Currency, "error", err)
		return
	}
	aggregate.BudgetStats.Observe(normalized)
}

// OnConfirmedBooking folds a confirmed booking into the user's aggregate
// and persists it. The caller (the history tracker) holds the user's write
// lock for the whole append-plus-update transaction.
func (pe *PreferenceEngine) OnConfirmedBooking(ctx context.Context, userID string, event entity.BookingEvent) error {
	aggregate, err := pe.store.LoadAggregate(ctx, userID)
	if err != nil {
		return err
	}
	if aggregate == nil {
		aggregate = entity.NewPreferenceAggregate(userID, pe.referenceCurrency)
	}
	pe.normalize(aggregate)

	pe.apply(ctx, aggregate, event)
	return pe.store.SaveAggregate(ctx, aggregate)
}

// MarkStale flags the user's aggregate for rebuild on the next read; called
// when the incremental update failed after the log append succeeded
func (pe *PreferenceEngine) MarkStale(ctx context.Context, userID string) error {
	aggregate, err := pe.store.LoadAggregate(ctx, userID)
	if err != nil {
		return err
	}
	if aggregate == nil {
		aggregate = entity.NewPreferenceAggregate(userID, pe.referenceCurrency)
	}
	pe.normalize(aggregate)
	aggregate.Stale = true
	return pe.store.SaveAggregate(ctx, aggregate)
}

// Rebuild reconstructs the aggregate by replaying the booking log from
// scratch. Recomputation is idempotent: the result replaces whatever was
// stored before.
func (pe *PreferenceEngine) Rebuild(ctx context.Context, userID string) (*entity.PreferenceAggregate, error) {
	unlock := pe.locks.Acquire(userID)
	defer unlock()
	return pe.rebuildLocked(ctx, userID)
}

func (pe *PreferenceEngine) rebuildLocked(ctx context.Context, userID string) (*entity.PreferenceAggregate, error) {
	log, err := pe.store.LoadBookingLog(ctx, userID)
	if err != nil {
		return nil, err
	}

	aggregate := entity.NewPreferenceAggregate(userID, pe.referenceCurrency)
	if log != nil {
		for _, event := range log.Bookings {
			if event.Status != entity.BookingConfirmed {
				continue
			}
			pe.apply(ctx, aggregate, event)
		}
	}

	if err := pe.store.SaveAggregate(ctx, aggregate); err != nil {
		return nil, err
	}
	pe.logger.Info("Rebuilt preference aggregate", "userId", userID)
	return aggregate, nil
}

// GetAggregate returns the user's aggregate, rebuilding a stale one first.
// An absent aggregate yields an empty one, not an error.
func (pe *PreferenceEngine) GetAggregate(ctx context.Context, userID string) (*entity.PreferenceAggregate, error) {
	aggregate, err := pe.store.LoadAggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if aggregate == nil {
		return entity.NewPreferenceAggregate(userID, pe.referenceCurrency), nil
	}
	if aggregate.Stale {
		return pe.Rebuild(ctx, userID)
	}
	pe.normalize(aggregate)
	return aggregate, nil
}
