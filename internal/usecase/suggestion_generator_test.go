package usecase

import (
	"context"
	"testing"
	"time"

	"travelctx-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateEmptyUserYieldsEmptySet(t *testing.T) {
	f := newFixture()

	set, err := f.suggestions.Generate(context.Background(), "nobody", entity.QueryContext{})
	require.NoError(t, err)
	assert.Empty(t, set.Routes)
	assert.Nil(t, set.Carrier)
	assert.Nil(t, set.Class)
	assert.Nil(t, set.Budget)
}

func TestGenerateRouteSuggestions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		_, err := f.history.AddBooking(ctx, confirmedBooking("u1", "SEA", "YVR", 200, now.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}
	_, err := f.history.AddBooking(ctx, confirmedBooking("u1", "LAX", "JFK", 300, now))
	require.NoError(t, err)

	// unconstrained query returns the full ranking
	set, err := f.suggestions.Generate(ctx, "u1", entity.QueryContext{})
	require.NoError(t, err)
	require.Len(t, set.Routes, 2)
	assert.Equal(t, "SEA-YVR", set.Routes[0].Route)

	// pinning the origin filters the ranking
	set, err = f.suggestions.Generate(ctx, "u1", entity.QueryContext{From: "LAX"})
	require.NoError(t, err)
	require.Len(t, set.Routes, 1)
	assert.Equal(t, "LAX-JFK", set.Routes[0].Route)

	// pinning the destination filters likewise
	set, err = f.suggestions.Generate(ctx, "u1", entity.QueryContext{To: "YVR"})
	require.NoError(t, err)
	require.Len(t, set.Routes, 1)
	assert.Equal(t, "SEA-YVR", set.Routes[0].Route)

	// an endpoint never flown leaves the category empty but not the others
	set, err = f.suggestions.Generate(ctx, "u1", entity.QueryContext{From: "CDG"})
	require.NoError(t, err)
	assert.Empty(t, set.Routes)
	assert.NotNil(t, set.Carrier)
}

func TestGenerateCarrierTieBrokenByRecency(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Now()

	older := confirmedBooking("u1", "SEA", "YVR", 200, now)
	older.Carrier = "AC"
	newer := confirmedBooking("u1", "SEA", "LAX", 200, now.Add(time.Hour))
	newer.Carrier = "DL"
	for _, event := range []entity.BookingEvent{older, newer} {
		_, err := f.history.AddBooking(ctx, event)
		require.NoError(t, err)
	}

	set, err := f.suggestions.Generate(ctx, "u1", entity.QueryContext{})
	require.NoError(t, err)
	require.NotNil(t, set.Carrier)
	assert.Equal(t, "DL", set.Carrier.Carrier)
	assert.Equal(t, int64(1), set.Carrier.Count)
}

func TestGenerateClassTieBreaks(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Now()

	economy := confirmedBooking("u1", "SEA", "YVR", 200, now)
	business := confirmedBooking("u1", "SEA", "LAX", 800, now.Add(time.Hour))
	business.CabinClass = entity.ClassBusiness
	for _, event := range []entity.BookingEvent{economy, business} {
		_, err := f.history.AddBooking(ctx, event)
		require.NoError(t, err)
	}

	// no stated preference: tie falls to the lower class
	set, err := f.suggestions.Generate(ctx, "u1", entity.QueryContext{})
	require.NoError(t, err)
	require.NotNil(t, set.Class)
	assert.Equal(t, entity.ClassEconomy, set.Class.CabinClass)

	// stated preference wins the tie
	preferred := entity.ClassBusiness
	_, err = f.profiles.Update(ctx, "u1", entity.ProfileUpdate{PreferredClass: &preferred}, true)
	require.NoError(t, err)

	set, err = f.suggestions.Generate(ctx, "u1", entity.QueryContext{})
	require.NoError(t, err)
	require.NotNil(t, set.Class)
	assert.Equal(t, entity.ClassBusiness, set.Class.CabinClass)
}

func TestGenerateBudgetBand(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Now()

	// a single confirmed booking yields no band
	_, err := f.history.AddBooking(ctx, confirmedBooking("u1", "SEA", "YVR", 200, now))
	require.NoError(t, err)
	set, err := f.suggestions.Generate(ctx, "u1", entity.QueryContext{})
	require.NoError(t, err)
	assert.Nil(t, set.Budget)

	for _, amount := range []float64{300, 400} {
		_, err := f.history.AddBooking(ctx, confirmedBooking("u1", "SEA", "YVR", amount, now))
		require.NoError(t, err)
	}

	set, err = f.suggestions.Generate(ctx, "u1", entity.QueryContext{})
	require.NoError(t, err)
	require.NotNil(t, set.Budget)
	assert.InDelta(t, 218.35, set.Budget.Low, 0.01)
	assert.InDelta(t, 381.65, set.Budget.High, 0.01)
	assert.Equal(t, "USD", set.Budget.Currency)
}

func TestGenerateBudgetBandClampedAtZero(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Now()

	// wide spread around a small mean drives the lower bound negative
	for _, amount := range []float64{1, 500} {
		_, err := f.history.AddBooking(ctx, confirmedBooking("u1", "SEA", "YVR", amount, now))
		require.NoError(t, err)
	}

	set, err := f.suggestions.Generate(ctx, "u1", entity.QueryContext{})
	require.NoError(t, err)
	require.NotNil(t, set.Budget)
	assert.Equal(t, 0.0, set.Budget.Low)
}

func TestGetStats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Now()

	_, err := f.profiles.Create(ctx, "u1", entity.TravelerProfile{
		PersonalInfo: entity.PersonalInfo{FullName: "Ada Lovelace"},
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := f.history.AddBooking(ctx, confirmedBooking("u1", "SEA", "YVR", 250, now.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}
	cancelled := confirmedBooking("u1", "SEA", "LAX", 900, now)
	cancelled.Status = entity.BookingCancelled
	_, err = f.history.AddBooking(ctx, cancelled)
	require.NoError(t, err)

	stats, err := f.suggestions.GetStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TripCount)
	require.NotNil(t, stats.AverageBudget)
	assert.InDelta(t, 250.0, *stats.AverageBudget, 1e-9)
	assert.Equal(t, "SEA-YVR", stats.TopRoute)
	require.NotNil(t, stats.MemberSince)
}

func TestGetStatsEmptyUser(t *testing.T) {
	f := newFixture()

	stats, err := f.suggestions.GetStats(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, stats.TripCount)
	assert.Nil(t, stats.AverageBudget)
	assert.Empty(t, stats.TopRoute)
	assert.Nil(t, stats.MemberSince)
}
