package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"travelctx-service/internal/domain/entity"
	"travelctx-service/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAbsentReturnsNilNotError(t *testing.T) {
	store := NewMemoryRecordStore()
	ctx := context.Background()

	profile, err := store.LoadProfile(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, profile)

	log, err := store.LoadBookingLog(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, log)
}

func TestSaveReplacesWholeRecord(t *testing.T) {
	store := NewMemoryRecordStore()
	ctx := context.Background()

	first := &entity.TravelerProfile{
		UserID:         "u1",
		PersonalInfo:   entity.PersonalInfo{FullName: "Ada Lovelace", Phone: "+1-555-0100"},
		SeatPreference: "window",
	}
	require.NoError(t, store.SaveProfile(ctx, first))

	second := &entity.TravelerProfile{
		UserID:       "u1",
		PersonalInfo: entity.PersonalInfo{FullName: "Ada Lovelace"},
	}
	require.NoError(t, store.SaveProfile(ctx, second))

	loaded, err := store.LoadProfile(ctx, "u1")
	require.NoError(t, err)
	// publish replaced everything: no residue of the first write
	assert.Empty(t, loaded.PersonalInfo.Phone)
	assert.Empty(t, loaded.SeatPreference)
}

func TestLoadedRecordIsAPrivateCopy(t *testing.T) {
	store := NewMemoryRecordStore()
	ctx := context.Background()

	require.NoError(t, store.SaveProfile(ctx, &entity.TravelerProfile{
		UserID:       "u1",
		PersonalInfo: entity.PersonalInfo{FullName: "Ada Lovelace"},
	}))

	loaded, err := store.LoadProfile(ctx, "u1")
	require.NoError(t, err)
	loaded.PersonalInfo.FullName = "Mallory"

	reloaded, err := store.LoadProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", reloaded.PersonalInfo.FullName)
}

func TestCorruptRecordSurfacesDistinctly(t *testing.T) {
	store := NewMemoryRecordStore()
	ctx := context.Background()

	require.NoError(t, store.SaveBookingLog(ctx, &entity.BookingLog{
		UserID:    "u1",
		UpdatedAt: time.Now(),
	}))
	store.Corrupt(repository.FamilyBookings, "u1")

	_, err := store.LoadBookingLog(ctx, "u1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrCorruptRecord))
	assert.False(t, errors.Is(err, entity.ErrStorageUnavailable))
}

func TestEraseRemovesEveryFamily(t *testing.T) {
	store := NewMemoryRecordStore()
	ctx := context.Background()

	require.NoError(t, store.SaveProfile(ctx, &entity.TravelerProfile{UserID: "u1"}))
	require.NoError(t, store.SaveBookingLog(ctx, &entity.BookingLog{UserID: "u1"}))
	require.NoError(t, store.SaveConversation(ctx, &entity.ConversationWindow{UserID: "u1"}))
	require.NoError(t, store.SaveAggregate(ctx, entity.NewPreferenceAggregate("u1", "USD")))

	require.NoError(t, store.Erase(ctx, "u1"))

	profile, err := store.LoadProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, profile)
	log, err := store.LoadBookingLog(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, log)
	window, err := store.LoadConversation(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, window)
	aggregate, err := store.LoadAggregate(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, aggregate)
}

func TestStaticCurrencyConverter(t *testing.T) {
	converter := NewStaticCurrencyConverter()
	ctx := context.Background()

	same, err := converter.Convert(ctx, 100, "USD", "USD")
	require.NoError(t, err)
	assert.Equal(t, 100.0, same)

	cad, err := converter.Convert(ctx, 100, "CAD", "USD")
	require.NoError(t, err)
	assert.InDelta(t, 73.0, cad, 1e-9)

	_, err = converter.Convert(ctx, 100, "XXX", "USD")
	require.Error(t, err)
}
