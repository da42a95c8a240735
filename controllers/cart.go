package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/store"
)

// CartStore replaces a user's stored cart.
type CartStore interface {
	UpdateCart(ctx context.Context, userID primitive.ObjectID, cartItems map[string]int) error
}

// CartController persists the cart on the user document.
type CartController struct {
	store CartStore
	log   *slog.Logger
}

// NewCartController creates a new CartController.
func NewCartController(store CartStore, log *slog.Logger) *CartController {
	return &CartController{store: store, log: log}
}

// UpdateCart replaces the caller's cart with the submitted one.
func (cc *CartController) UpdateCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		CartItems map[string]int `json:"cartItems"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CartItems == nil {
		req.CartItems = map[string]int{}
	}

	if err := cc.store.UpdateCart(r.Context(), userID, req.CartItems); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		cc.log.Error("failed to update cart", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, response{"success": true, "message": "Cart updated"})
}
