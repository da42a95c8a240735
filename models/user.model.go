package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a customer account. CartItems maps product id to quantity
// and lives on the user document itself.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password,omitempty" json:"-"`
	CartItems map[string]int     `bson:"cartItems" json:"cartItems"`
	Banned    bool               `bson:"banned" json:"banned"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
