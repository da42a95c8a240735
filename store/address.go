package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-storefront/models"
)

// AddressStore persists delivery addresses with at most one record per
// (user, addressKey) pair.
type AddressStore struct {
	coll *mongo.Collection
	log  *slog.Logger
}

// NewAddressStore creates an AddressStore backed by the given database.
func NewAddressStore(db *mongo.Database, log *slog.Logger) *AddressStore {
	return &AddressStore{coll: db.Collection(addressesCollection), log: log}
}

// AddOrGet returns the id of the stored address matching the input's key,
// inserting a new record when none exists. The insert is guarded by the unique
// (userId, addressKey) index: when a concurrent request wins the race, the
// duplicate-key error is absorbed by re-reading the winner. Safe to retry.
func (s *AddressStore) AddOrGet(ctx context.Context, userID primitive.ObjectID, in models.AddressInput) (primitive.ObjectID, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	key := AddressKey(in)

	id, err := s.findByKey(ctx, userID, key)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return primitive.NilObjectID, false, fmt.Errorf("find address: %w", err)
	}

	addr := models.Address{
		UserID:     userID,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Street:     in.Street,
		City:       in.City,
		State:      in.State,
		ZipCode:    in.ZipCode,
		Country:    in.Country,
		Phone:      in.Phone,
		AddressKey: key,
		CreatedAt:  time.Now().UTC(),
	}

	res, err := s.coll.InsertOne(ctx, addr)
	if err == nil {
		return res.InsertedID.(primitive.ObjectID), true, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, false, fmt.Errorf("insert address: %w", err)
	}

	// A concurrent insert won the race; return the winner's id.
	s.log.Debug("address insert lost race, re-reading", slog.String("userId", userID.Hex()))
	id, err = s.findByKey(ctx, userID, key)
	if err != nil {
		return primitive.NilObjectID, false, fmt.Errorf("re-read address after conflict: %w", err)
	}
	return id, false, nil
}

func (s *AddressStore) findByKey(ctx context.Context, userID primitive.ObjectID, key string) (primitive.ObjectID, error) {
	var addr models.Address
	err := s.coll.FindOne(ctx, bson.M{"userId": userID, "addressKey": key}).Decode(&addr)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return addr.ID, nil
}

// ListByUser returns the user's addresses, most recent first.
func (s *AddressStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}

	addresses := []models.Address{}
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, fmt.Errorf("decode addresses: %w", err)
	}
	return addresses, nil
}
