package usecase

import (
	"context"
	"errors"
	"time"

	"travelctx-service/internal/domain/entity"
	storeRepo "travelctx-service/internal/interface/repository"
	"travelctx-service/pkg/logger"
	"travelctx-service/pkg/userlock"
)

// fixture bundles the usecases wired over an in-memory store
type fixture struct {
	store        *storeRepo.MemoryRecordStore
	profiles     *ProfileManager
	engine       *PreferenceEngine
	history      *HistoryTracker
	conversation *ConversationTracker
	suggestions  *SuggestionGenerator
	privacy      *PrivacyService
}

func newFixture() *fixture {
	store := storeRepo.NewMemoryRecordStore()
	locks := userlock.NewRegistry()
	log := logger.NewNop()
	converter := storeRepo.NewStaticCurrencyConverter()

	profiles := NewProfileManager(store, locks, log)
	engine := NewPreferenceEngine(store, converter, locks, log, "USD")
	history := NewHistoryTracker(store, engine, locks, log, 0)
	conversation := NewConversationTracker(store, locks, log, 0)
	suggestions := NewSuggestionGenerator(profiles, history, engine, log, 0)
	privacy := NewPrivacyService(store, locks, log)

	return &fixture{
		store:        store,
		profiles:     profiles,
		engine:       engine,
		history:      history,
		conversation: conversation,
		suggestions:  suggestions,
		privacy:      privacy,
	}
}

// failingConverter always fails, exercising the budget-degradation path
type failingConverter struct{}

func (failingConverter) Convert(context.Context, float64, string, string) (float64, error) {
	return 0, errors.New("rate service down")
}

func confirmedBooking(userID, from, to string, amount float64, at time.Time) entity.BookingEvent {
	return entity.BookingEvent{
		UserID:         userID,
		From:           from,
		To:             to,
		Carrier:        "AC",
		FlightNumber:   "AC123",
		CabinClass:     entity.ClassEconomy,
		Price:          entity.Price{Amount: amount, Currency: "USD"},
		PassengerCount: 1,
		Status:         entity.BookingConfirmed,
		Timestamp:      at,
	}
}
