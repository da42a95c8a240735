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

// ErrEmailTaken is returned when registration collides with an existing
// account email.
var ErrEmailTaken = errors.New("email already registered")

// UserStore persists customer accounts.
type UserStore struct {
	coll *mongo.Collection
	log  *slog.Logger
}

// NewUserStore creates a UserStore backed by the given database.
func NewUserStore(db *mongo.Database, log *slog.Logger) *UserStore {
	return &UserStore{coll: db.Collection(usersCollection), log: log}
}

// Create inserts a new account. The unique email index makes concurrent
// registrations with the same email fail cleanly with ErrEmailTaken.
func (s *UserStore) Create(ctx context.Context, u models.User) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	u.CreatedAt = time.Now().UTC()
	if u.CartItems == nil {
		u.CartItems = map[string]int{}
	}

	res, err := s.coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, ErrEmailTaken
	}
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert user: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// GetByEmail returns the account for the given email, or ErrNotFound.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// GetByID returns the account for the given id, or ErrNotFound.
func (s *UserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u models.User
	err := s.coll.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// UpdateCart replaces the user's stored cart.
func (s *UserStore) UpdateCart(ctx context.Context, userID primitive.ObjectID, cartItems map[string]int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"cartItems": cartItems}})
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll returns every account without password hashes, newest first.
// Administrative scope.
func (s *UserStore) ListAll(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"password": 0})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}
