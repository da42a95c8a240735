package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address represents a saved delivery address. AddressKey is derived from the
// physical-identity fields only (never name or email) so that a typo fix in the
// contact details reuses the same record.
type Address struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	FirstName  string             `bson:"firstName" json:"firstName"`
	LastName   string             `bson:"lastName" json:"lastName"`
	Email      string             `bson:"email" json:"email"`
	Street     string             `bson:"street" json:"street"`
	City       string             `bson:"city" json:"city"`
	State      string             `bson:"state" json:"state"`
	ZipCode    string             `bson:"zipCode" json:"zipCode"` // string to preserve leading zeros
	Country    string             `bson:"country" json:"country"`
	Phone      string             `bson:"phone" json:"phone"`
	AddressKey string             `bson:"addressKey" json:"-"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// AddressInput is the raw address payload submitted at checkout.
type AddressInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Street    string `json:"street" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zipCode" validate:"required"`
	Country   string `json:"country" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
}
