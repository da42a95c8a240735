package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"go-storefront/models"
)

func orderDoc(id, userID, addressID primitive.ObjectID, status string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "userId", Value: userID},
		{Key: "items", Value: bson.A{bson.D{
			{Key: "productName", Value: "Paracetamol"},
			{Key: "productPrice", Value: 10.0},
			{Key: "quantity", Value: 3},
		}}},
		{Key: "amount", Value: 30.0},
		{Key: "address", Value: addressID},
		{Key: "status", Value: status},
		{Key: "paymentType", Value: "COD"},
		{Key: "isPaid", Value: false},
		{Key: "createdAt", Value: time.Now().UTC()},
	}
}

func TestOrderStorePlace(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("inserts the order and returns its id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		s := &OrderStore{orders: mt.Coll, addresses: mt.Coll, log: testLogger()}
		items := []models.OrderItem{{ProductName: "Paracetamol", ProductPrice: 10, Quantity: 3}}

		id, err := s.Place(context.Background(), primitive.NewObjectID(), items, 30, primitive.NewObjectID())

		require.NoError(mt.T, err)
		assert.NotEqual(mt.T, primitive.NilObjectID, id)
	})
}

func TestOrderStoreGetByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns the order with its address attached", func(mt *mtest.T) {
		orderID := primitive.NewObjectID()
		userID := primitive.NewObjectID()
		addressID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "storefront.orders", mtest.FirstBatch,
				orderDoc(orderID, userID, addressID, models.StatusOrderPlaced)),
			mtest.CreateCursorResponse(1, "storefront.addresses", mtest.FirstBatch,
				addressDoc(addressID, userID, "key-1")),
		)

		s := &OrderStore{orders: mt.Coll, addresses: mt.Coll, log: testLogger()}
		order, err := s.GetByID(context.Background(), orderID)

		require.NoError(mt.T, err)
		assert.Equal(mt.T, orderID, order.ID)
		assert.Equal(mt.T, 30.0, order.Amount)
		assert.Equal(mt.T, models.StatusOrderPlaced, order.Status)
		require.NotNil(mt.T, order.Address)
		assert.Equal(mt.T, addressID, order.Address.ID)
	})

	mt.Run("returns ErrNotFound for an unknown order", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.orders", mtest.FirstBatch))

		s := &OrderStore{orders: mt.Coll, addresses: mt.Coll, log: testLogger()}
		_, err := s.GetByID(context.Background(), primitive.NewObjectID())

		assert.True(mt.T, errors.Is(err, ErrNotFound))
	})
}

func TestOrderStoreListByUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("attaches addresses to the listed orders", func(mt *mtest.T) {
		userID := primitive.NewObjectID()
		addressID := primitive.NewObjectID()
		newer := primitive.NewObjectID()
		older := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "storefront.orders", mtest.FirstBatch,
				orderDoc(newer, userID, addressID, models.StatusShipped),
				orderDoc(older, userID, addressID, models.StatusDelivered),
			),
			mtest.CreateCursorResponse(0, "storefront.addresses", mtest.FirstBatch,
				addressDoc(addressID, userID, "key-1")),
		)

		s := &OrderStore{orders: mt.Coll, addresses: mt.Coll, log: testLogger()}
		orders, err := s.ListByUser(context.Background(), userID)

		require.NoError(mt.T, err)
		require.Len(mt.T, orders, 2)
		assert.Equal(mt.T, newer, orders[0].ID)
		require.NotNil(mt.T, orders[0].Address)
		require.NotNil(mt.T, orders[1].Address)
		assert.Equal(mt.T, addressID, orders[0].Address.ID)
	})

	mt.Run("returns empty slice without querying addresses", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.orders", mtest.FirstBatch))

		s := &OrderStore{orders: mt.Coll, addresses: mt.Coll, log: testLogger()}
		orders, err := s.ListByUser(context.Background(), primitive.NewObjectID())

		require.NoError(mt.T, err)
		assert.Empty(mt.T, orders)
	})
}

func TestOrderStoreUpdateStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("updates a matching order", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		s := &OrderStore{orders: mt.Coll, addresses: mt.Coll, log: testLogger()}
		err := s.UpdateStatus(context.Background(), primitive.NewObjectID(), models.StatusShipped)

		assert.NoError(mt.T, err)
	})

	mt.Run("returns ErrNotFound when nothing matches", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		s := &OrderStore{orders: mt.Coll, addresses: mt.Coll, log: testLogger()}
		err := s.UpdateStatus(context.Background(), primitive.NewObjectID(), models.StatusShipped)

		assert.True(mt.T, errors.Is(err, ErrNotFound))
	})
}
