package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"travelctx-service/internal/domain/entity"
	"travelctx-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRecordStore implements the RecordStore interface with one collection
// per record family and one document per user (_id = userId). ReplaceOne
// with upsert gives the atomic per-key publish: a reader sees either the
// previous document or the new one, never a mix.
type MongoRecordStore struct {
	collections map[string]*mongo.Collection
}

// NewMongoRecordStore creates a record store over the given database
func NewMongoRecordStore(db *mongo.Database) repository.RecordStore {
	collections := make(map[string]*mongo.Collection, len(repository.Families))
	for _, family := range repository.Families {
		collections[family] = db.Collection(family)
	}
	return &MongoRecordStore{
		collections: collections,
	}
}

// load fetches the raw document for (family, userID); (nil, nil) when absent
func (s *MongoRecordStore) load(ctx context.Context, family, userID string) (bson.Raw, error) {
	var raw bson.Raw
	err := s.collections[family].FindOne(ctx, bson.M{"_id": userID}).Decode(&raw)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s read for %s: %v", entity.ErrStorageUnavailable, family, userID, err)
	}
	return raw, nil
}

// decode unmarshals a fetched document, mapping failures to ErrCorruptRecord
func decode(family, userID string, raw bson.Raw, out interface{}) error {
	if err := bson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s record for %s: %v", entity.ErrCorruptRecord, family, userID, err)
	}
	return nil
}

// save atomically replaces the document for (family, userID)
func (s *MongoRecordStore) save(ctx context.Context, family, userID string, record interface{}) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.collections[family].ReplaceOne(ctx, bson.M{"_id": userID}, record, opts)
	if err != nil {
		return fmt.Errorf("%w: %s write for %s: %v", entity.ErrStorageUnavailable, family, userID, err)
	}
	return nil
}

// LoadProfile fetches a traveler profile; (nil, nil) when absent
func (s *MongoRecordStore) LoadProfile(ctx context.Context, userID string) (*entity.TravelerProfile, error) {
	raw, err := s.load(ctx, repository.FamilyProfiles, userID)
	if err != nil || raw == nil {
		return nil, err
	}
	var profile entity.TravelerProfile
	if err := decode(repository.FamilyProfiles, userID, raw, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveProfile replaces the user's profile document
func (s *MongoRecordStore) SaveProfile(ctx context.Context, profile *entity.TravelerProfile) error {
	return s.save(ctx, repository.FamilyProfiles, profile.UserID, profile)
}

// LoadBookingLog fetches a user's booking history; (nil, nil) when absent
func (s *MongoRecordStore) LoadBookingLog(ctx context.Context, userID string) (*entity.BookingLog, error) {
	raw, err := s.load(ctx, repository.FamilyBookings, userID)
	if err != nil || raw == nil {
		return nil, err
	}
	var log entity.BookingLog
	if err := decode(repository.FamilyBookings, userID, raw, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

// SaveBookingLog replaces the user's booking history document
func (s *MongoRecordStore) SaveBookingLog(ctx context.Context, log *entity.BookingLog) error {
	return s.save(ctx, repository.FamilyBookings, log.UserID, log)
}

// LoadConversation fetches a user's conversation window; (nil, nil) when absent
func (s *MongoRecordStore) LoadConversation(ctx context.Context, userID string) (*entity.ConversationWindow, error) {
	raw, err := s.load(ctx, repository.FamilyConversation, userID)
	if err != nil || raw == nil {
		return nil, err
	}
	var window entity.ConversationWindow
	if err := decode(repository.FamilyConversation, userID, raw, &window); err != nil {
		return nil, err
	}
	return &window, nil
}

// SaveConversation replaces the user's conversation window document
func (s *MongoRecordStore) SaveConversation(ctx context.Context, window *entity.ConversationWindow) error {
	return s.save(ctx, repository.FamilyConversation, window.UserID, window)
}

// LoadAggregate fetches a user's preference aggregate; (nil, nil) when absent
func (s *MongoRecordStore) LoadAggregate(ctx context.Context, userID string) (*entity.PreferenceAggregate, error) {
	raw, err := s.load(ctx, repository.FamilyAggregates, userID)
	if err != nil || raw == nil {
		return nil, err
	}
	var aggregate entity.PreferenceAggregate
	if err := decode(repository.FamilyAggregates, userID, raw, &aggregate); err != nil {
		return nil, err
	}
	return &aggregate, nil
}

// SaveAggregate replaces the user's preference aggregate document
func (s *MongoRecordStore) SaveAggregate(ctx context.Context, aggregate *entity.PreferenceAggregate) error {
	aggregate.UpdatedAt = time.Now()
	return s.save(ctx, repository.FamilyAggregates, aggregate.UserID, aggregate)
}

// Erase deletes the user's document from every family. Families that fail
// are reported together as a partial erasure so the caller retries.
func (s *MongoRecordStore) Erase(ctx context.Context, userID string) error {
	var failed []string
	for _, family := range repository.Families {
		_, err := s.collections[family].DeleteOne(ctx, bson.M{"_id": userID})
		if err != nil {
			failed = append(failed, family)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%w: user %s, families left: %s", entity.ErrPartialErasure, userID, strings.Join(failed, ","))
	}
	return nil
}
