package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Any enumerated status may be set from any other; the admin
// panel relies on that for manual overrides.
const (
	StatusOrderPlaced = "Order Placed"
	StatusProcessing  = "Processing"
	StatusShipped     = "Shipped"
	StatusDelivered   = "Delivered"
	StatusCancelled   = "Cancelled"
)

// OrderStatuses lists every valid order status.
var OrderStatuses = []string{
	StatusOrderPlaced,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// ValidOrderStatus reports whether s is one of the enumerated statuses.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// OrderItem is one product entry within an order, carrying its own price and
// quantity snapshot at order time.
type OrderItem struct {
	ProductName  string  `bson:"productName" json:"productName" validate:"required"`
	ProductPrice float64 `bson:"productPrice" json:"productPrice" validate:"gte=0"`
	ProductImage string  `bson:"productImage,omitempty" json:"productImage,omitempty"`
	Quantity     int     `bson:"quantity" json:"quantity" validate:"gte=1"`
}

// Order represents a placed order. Immutable after creation except for Status
// and IsPaid. Address is attached on reads from the referenced address record
// and never persisted inline.
type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Items       []OrderItem        `bson:"items" json:"items"`
	Amount      float64            `bson:"amount" json:"amount"`
	AddressID   primitive.ObjectID `bson:"address" json:"addressId"`
	Address     *Address           `bson:"-" json:"address,omitempty"`
	Status      string             `bson:"status" json:"status"`
	PaymentType string             `bson:"paymentType" json:"paymentType"`
	IsPaid      bool               `bson:"isPaid" json:"isPaid"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
