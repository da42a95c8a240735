package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// Collection names.
const (
	usersCollection     = "users"
	productsCollection  = "products"
	addressesCollection = "addresses"
	ordersCollection    = "orders"
)

const queryTimeout = 10 * time.Second

// Connect opens a client for the given URI and verifies the connection. The
// caller owns the handle and is responsible for disconnecting it on shutdown.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes the stores rely on. The compound unique
// index on (userId, addressKey) is what makes concurrent saves of the same
// address converge to a single record; checking before insert is not enough.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(addressesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "addressKey", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create address index: %w", err)
	}

	_, err = db.Collection(productsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create product index: %w", err)
	}

	_, err = db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create user index: %w", err)
	}
	return nil
}
