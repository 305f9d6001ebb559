package usecase

import (
	"context"
	"testing"
	"time"

	"travelctx-service/internal/domain/entity"
	storeRepo "travelctx-service/internal/interface/repository"
	"travelctx-service/pkg/logger"
	"travelctx-service/pkg/userlock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetStatsWelford(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Now()

	for _, amount := range []float64{200, 300, 400} {
		_, err := f.history.AddBooking(ctx, confirmedBooking("u1", "SEA", "YVR", amount, now))
		require.NoError(t, err)
	}

	aggregate, err := f.engine.GetAggregate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), aggregate.BudgetStats.Count)
	assert.InDelta(t, 300.0, aggregate.BudgetStats.Mean, 1e-9)
	assert.InDelta(t, 81.6497, aggregate.BudgetStats.StdDev(), 1e-3)
	assert.Equal(t, 200.0, aggregate.BudgetStats.Min)
	assert.Equal(t, 400.0, aggregate.BudgetStats.Max)
}

func TestBudgetNormalizedToReferenceCurrency(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	event := confirmedBooking("u1", "SEA", "YVR", 100, time.Now())
	event.Price.Currency = "CAD"
	_, err := f.history.AddBooking(ctx, event)
	require.NoError(t, err)

	aggregate, err := f.engine.GetAggregate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "USD", aggregate.BudgetStats.Currency)
	assert.InDelta(t, 73.0, aggregate.BudgetStats.Mean, 1e-9)
}

func TestCancelledBookingDoesNotTouchAggregate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	event := confirmedBooking("u1", "SEA", "YVR", 200, time.Now())
	event.Status = entity.BookingCancelled
	_, err := f.history.AddBooking(ctx, event)
	require.NoError(t, err)

	aggregate, err := f.engine.GetAggregate(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, aggregate.RouteFrequency)
	assert.Empty(t, aggregate.CarrierFrequency)
	assert.Empty(t, aggregate.ClassFrequency)
	assert.Zero(t, aggregate.BudgetStats.Count)
}

func TestReplayEqualsIncremental(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Now()

	events := []entity.BookingEvent{
		confirmedBooking("u1", "SEA", "YVR", 200, now),
		confirmedBooking("u1", "SEA", "LAX", 450, now.Add(time.Hour)),
		confirmedBooking("u1", "SEA", "YVR", 310, now.Add(2*time.Hour)),
	}
	events[1].Carrier = "DL"
	events[1].CabinClass = entity.ClassBusiness
	for _, event := range events {
		_, err := f.history.AddBooking(ctx, event)
		require.NoError(t, err)
	}

	incremental, err := f.engine.GetAggregate(ctx, "u1")
	require.NoError(t, err)

	rebuilt, err := f.engine.Rebuild(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, incremental.RouteFrequency, rebuilt.RouteFrequency)
	assert.Equal(t, incremental.CarrierFrequency, rebuilt.CarrierFrequency)
	assert.Equal(t, incremental.ClassFrequency, rebuilt.ClassFrequency)
	assert.Equal(t, incremental.BudgetStats.Count, rebuilt.BudgetStats.Count)
	assert.InDelta(t, incremental.BudgetStats.Mean, rebuilt.BudgetStats.Mean, 1e-9)
	assert.InDelta(t, incremental.BudgetStats.M2, rebuilt.BudgetStats.M2, 1e-9)
}

func TestConversionFailureDegradesToCountersOnly(t *testing.T) {
	store := storeRepo.NewMemoryRecordStore()
	locks := userlock.NewRegistry()
	log := logger.NewNop()
	engine := NewPreferenceEngine(store, failingConverter{}, locks, log, "USD")
	history := NewHistoryTracker(store, engine, locks, log, 0)
	ctx := context.Background()

	_, err := history.AddBooking(ctx, confirmedBooking("u1", "SEA", "YVR", 200, time.Now()))
	require.NoError(t, err)

	aggregate, err := engine.GetAggregate(ctx, "u1")
	require.NoError(t, err)
	// counters still applied
	assert.Equal(t, int64(1), aggregate.RouteFrequency["SEA-YVR"].Count)
	assert.Equal(t, int64(1), aggregate.CarrierFrequency["AC"].Count)
	assert.Equal(t, int64(1), aggregate.ClassFrequency[entity.ClassEconomy])
	// budget update skipped
	assert.Zero(t, aggregate.BudgetStats.Count)
}

func TestStaleAggregateRebuiltOnRead(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.history.AddBooking(ctx, confirmedBooking("u1", "SEA", "YVR", 200, time.Now()))
	require.NoError(t, err)

	require.NoError(t, f.engine.MarkStale(ctx, "u1"))

	aggregate, err := f.engine.GetAggregate(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, aggregate.Stale)
	assert.Equal(t, int64(1), aggregate.RouteFrequency["SEA-YVR"].Count)
	assert.Equal(t, int64(1), aggregate.BudgetStats.Count)
}

func TestGetAggregateAbsentUserIsEmpty(t *testing.T) {
	f := newFixture()

	aggregate, err := f.engine.GetAggregate(context.Background(), "nobody")
	require.NoError(t, err)
	require.NotNil(t, aggregate)
	assert.Empty(t, aggregate.RouteFrequency)
	assert.Zero(t, aggregate.BudgetStats.Count)
	assert.Equal(t, "USD", aggregate.BudgetStats.Currency)
}
