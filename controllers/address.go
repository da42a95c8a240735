package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
)

// AddressStore is the persistence surface the address endpoints need.
type AddressStore interface {
	AddOrGet(ctx context.Context, userID primitive.ObjectID, in models.AddressInput) (primitive.ObjectID, bool, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error)
}

// AddressController handles checkout address submission and listing.
type AddressController struct {
	store AddressStore
	log   *slog.Logger
}

// NewAddressController creates a new AddressController.
func NewAddressController(store AddressStore, log *slog.Logger) *AddressController {
	return &AddressController{store: store, log: log}
}

// AddAddress saves a checkout address. Submitting the same physical address
// again returns the existing record instead of creating a duplicate.
func (ac *AddressController) AddAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Address *models.AddressInput `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Address == nil {
		writeError(w, http.StatusBadRequest, "No address payload")
		return
	}
	if err := validate.Struct(req.Address); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid address payload")
		return
	}

	id, created, err := ac.store.AddOrGet(r.Context(), userID, *req.Address)
	if err != nil {
		ac.log.Error("failed to save address", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if !created {
		writeJSON(w, http.StatusOK, response{
			"success":   true,
			"message":   "Address already saved",
			"addressId": id,
		})
		return
	}
	writeJSON(w, http.StatusCreated, response{
		"success":   true,
		"message":   "Address added successfully",
		"addressId": id,
	})
}

// GetAddresses lists the caller's saved addresses, most recent first.
func (ac *AddressController) GetAddresses(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	addresses, err := ac.store.ListByUser(r.Context(), userID)
	if err != nil {
		ac.log.Error("failed to list addresses", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, response{"success": true, "addresses": addresses})
}
