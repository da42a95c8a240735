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

// OrderStore persists orders. Orders are immutable after creation except for
// the status and paid flags.
type OrderStore struct {
	orders    *mongo.Collection
	addresses *mongo.Collection
	log       *slog.Logger
}

// NewOrderStore creates an OrderStore backed by the given database.
func NewOrderStore(db *mongo.Database, log *slog.Logger) *OrderStore {
	return &OrderStore{
		orders:    db.Collection(ordersCollection),
		addresses: db.Collection(addressesCollection),
		log:       log,
	}
}

// Place inserts a new order and returns its id. Repeat submissions create
// repeat orders; callers wanting exactly-once must dedupe above this layer.
func (s *OrderStore) Place(ctx context.Context, userID primitive.ObjectID, items []models.OrderItem, amount float64, addressID primitive.ObjectID) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	order := models.Order{
		UserID:      userID,
		Items:       items,
		Amount:      amount,
		AddressID:   addressID,
		Status:      models.StatusOrderPlaced,
		PaymentType: "COD",
		IsPaid:      false,
		CreatedAt:   time.Now().UTC(),
	}

	res, err := s.orders.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert order: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// GetByID returns a single order with its address attached. Returns
// ErrNotFound when no order exists for the id.
func (s *OrderStore) GetByID(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var order models.Order
	err := s.orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}

	var addr models.Address
	err = s.addresses.FindOne(ctx, bson.M{"_id": order.AddressID}).Decode(&addr)
	if err == nil {
		order.Address = &addr
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find order address: %w", err)
	}
	return &order, nil
}

// ListByUser returns a user's orders, most recent first, addresses attached.
func (s *OrderStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.list(ctx, bson.M{"userId": userID})
}

// ListAll returns every order in the system, most recent first, addresses
// attached. Administrative scope; access control belongs to the caller.
func (s *OrderStore) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.list(ctx, bson.M{})
}

func (s *OrderStore) list(ctx context.Context, filter bson.M) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	if err := s.attachAddresses(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachAddresses resolves the referenced addresses for a batch of orders with
// a single $in query.
func (s *OrderStore) attachAddresses(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(orders))
	seen := make(map[primitive.ObjectID]bool, len(orders))
	for _, o := range orders {
		if !seen[o.AddressID] {
			seen[o.AddressID] = true
			ids = append(ids, o.AddressID)
		}
	}

	cursor, err := s.addresses.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("list order addresses: %w", err)
	}

	var addrs []models.Address
	if err := cursor.All(ctx, &addrs); err != nil {
		return fmt.Errorf("decode order addresses: %w", err)
	}

	byID := make(map[primitive.ObjectID]*models.Address, len(addrs))
	for i := range addrs {
		byID[addrs[i].ID] = &addrs[i]
	}
	for i := range orders {
		orders[i].Address = byID[orders[i].AddressID]
	}
	return nil
}

// UpdateStatus sets the order's status. Membership in the status enum is the
// caller's concern; this only reports ErrNotFound for unknown orders.
func (s *OrderStore) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.orders.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
