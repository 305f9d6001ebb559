package repository

import (
	"context"
	"fmt"
	"sync"

	"travelctx-service/internal/domain/entity"
	"travelctx-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
)

// MemoryRecordStore implements the RecordStore interface with in-process
// maps, used for tests and single-node development. Records are stored as
// marshaled bytes: a Save publishes a complete immutable snapshot and a Load
// decodes a private copy, so callers can never mutate stored state through
// a returned pointer.
type MemoryRecordStore struct {
	mu       sync.RWMutex
	families map[string]map[string][]byte
}

// NewMemoryRecordStore creates an empty in-memory record store
func NewMemoryRecordStore() *MemoryRecordStore {
	families := make(map[string]map[string][]byte, len(repository.Families))
	for _, family := range repository.Families {
		families[family] = make(map[string][]byte)
	}
	return &MemoryRecordStore{
		families: families,
	}
}

func (s *MemoryRecordStore) load(family, userID string, out interface{}) (bool, error) {
	s.mu.RLock()
	raw, ok := s.families[family][userID]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("%w: %s record for %s: %v", entity.ErrCorruptRecord, family, userID, err)
	}
	return true, nil
}

func (s *MemoryRecordStore) save(family, userID string, record interface{}) error {
	raw, err := bson.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: %s write for %s: %v", entity.ErrStorageUnavailable, family, userID, err)
	}
	s.mu.Lock()
	s.families[family][userID] = raw
	s.mu.Unlock()
	return nil
}

// Corrupt overwrites a stored record with undecodable bytes; test hook for
// the CorruptRecord path.
func (s *MemoryRecordStore) Corrupt(family, userID string) {
	s.mu.Lock()
	s.families[family][userID] = []byte{0x01}
	s.mu.Unlock()
}

// LoadProfile fetches a traveler profile; (nil, nil) when absent
func (s *MemoryRecordStore) LoadProfile(_ context.Context, userID string) (*entity.TravelerProfile, error) {
	var profile entity.TravelerProfile
	ok, err := s.load(repository.FamilyProfiles, userID, &profile)
	if err != nil || !ok {
		return nil, err
	}
	return &profile, nil
}

// SaveProfile replaces the user's profile record
func (s *MemoryRecordStore) SaveProfile(_ context.Context, profile *entity.TravelerProfile) error {
	return s.save(repository.FamilyProfiles, profile.UserID, profile)
}

// LoadBookingLog fetches a user's booking history; (nil, nil) when absent
func (s *MemoryRecordStore) LoadBookingLog(_ context.Context, userID string) (*entity.BookingLog, error) {
	var log entity.BookingLog
	ok, err := s.load(repository.FamilyBookings, userID, &log)
	if err != nil || !ok {
		return nil, err
	}
	return &log, nil
}

// SaveBookingLog replaces the user's booking history record
func (s *MemoryRecordStore) SaveBookingLog(_ context.Context, log *entity.BookingLog) error {
	return s.save(repository.FamilyBookings, log.UserID, log)
}

// LoadConversation fetches a user's conversation window; (nil, nil) when absent
func (s *MemoryRecordStore) LoadConversation(_ context.Context, userID string) (*entity.ConversationWindow, error) {
	var window entity.ConversationWindow
	ok, err := s.load(repository.FamilyConversation, userID, &window)
	if err != nil || !ok {
		return nil, err
	}
	return &window, nil
}

// SaveConversation replaces the user's conversation window record
func (s *MemoryRecordStore) SaveConversation(_ context.Context, window *entity.ConversationWindow) error {
	return s.save(repository.FamilyConversation, window.UserID, window)
}

// LoadAggregate fetches a user's preference aggregate; (nil, nil) when absent
func (s *MemoryRecordStore) LoadAggregate(_ context.Context, userID string) (*entity.PreferenceAggregate, error) {
	var aggregate entity.PreferenceAggregate
	ok, err := s.load(repository.FamilyAggregates, userID, &aggregate)
	if err != nil || !ok {
		return nil, err
	}
	return &aggregate, nil
}

// SaveAggregate replaces the user's preference aggregate record
func (s *MemoryRecordStore) SaveAggregate(_ context.Context, aggregate *entity.PreferenceAggregate) error {
	return s.save(repository.FamilyAggregates, aggregate.UserID, aggregate)
}

// Erase deletes the user's record from every family
func (s *MemoryRecordStore) Erase(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, family := range repository.Families {
		delete(s.families[family], userID)
	}
	return nil
}
