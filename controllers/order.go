package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
	"go-storefront/store"
	"go-storefront/utils"
)

// OrderStore is the persistence surface the order endpoints need.
type OrderStore interface {
	Place(ctx context.Context, userID primitive.ObjectID, items []models.OrderItem, amount float64, addressID primitive.ObjectID) (primitive.ObjectID, error)
	GetByID(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status string) error
}

// OrderUserGetter resolves the buyer's account for confirmation mail.
type OrderUserGetter interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// OrderController handles checkout submission and order management.
type OrderController struct {
	store OrderStore
	users OrderUserGetter
	email *utils.EmailService
	log   *slog.Logger
}

// NewOrderController creates a new OrderController. email may be nil when no
// mail provider is configured.
func NewOrderController(store OrderStore, users OrderUserGetter, email *utils.EmailService, log *slog.Logger) *OrderController {
	return &OrderController{store: store, users: users, email: email, log: log}
}

type placeOrderRequest struct {
	Items     []models.OrderItem `json:"items"`
	AddressID string             `json:"addressId"`
}

// PlaceOrderCOD creates a cash-on-delivery order from the submitted cart
// snapshot. The amount is always computed here; a client-supplied total is
// never read. Resubmitting the same cart creates a second order.
func (oc *OrderController) PlaceOrderCOD(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order details")
		return
	}
	if len(req.Items) == 0 || req.AddressID == "" {
		writeError(w, http.StatusBadRequest, "Invalid order details")
		return
	}
	addressID, err := primitive.ObjectIDFromHex(req.AddressID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order details")
		return
	}
	for _, item := range req.Items {
		if err := validate.Struct(item); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid item in cart")
			return
		}
	}

	amount := orderAmount(req.Items)

	orderID, err := oc.store.Place(r.Context(), userID, req.Items, amount, addressID)
	if err != nil {
		oc.log.Error("failed to place order", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	oc.sendConfirmation(userID, orderID, amount)

	writeJSON(w, http.StatusCreated, response{
		"success": true,
		"message": "Order placed successfully",
		"orderId": orderID,
	})
}

// orderAmount sums price times quantity over the cart snapshot.
func orderAmount(items []models.OrderItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.ProductPrice * float64(item.Quantity)
	}
	return total
}

// sendConfirmation mails the buyer in the background. Failures are logged,
// never surfaced: the order is already durable.
func (oc *OrderController) sendConfirmation(userID, orderID primitive.ObjectID, amount float64) {
	if oc.email == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		user, err := oc.users.GetByID(ctx, userID)
		if err != nil {
			oc.log.Error("failed to load user for confirmation email", slog.Any("error", err))
			return
		}
		order := models.Order{ID: orderID, Amount: amount, PaymentType: "COD"}
		if err := oc.email.SendOrderConfirmation(user.Email, user.Name, order); err != nil {
			oc.log.Error("failed to send confirmation email",
				slog.String("email", user.Email), slog.Any("error", err))
		}
	}()
}

// GetUserOrders lists the caller's orders, most recent first.
func (oc *OrderController) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orders, err := oc.store.ListByUser(r.Context(), userID)
	if err != nil {
		oc.log.Error("failed to list user orders", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, response{"success": true, "orders": orders})
}

// GetAllOrders lists every order for the admin dashboard, most recent first.
func (oc *OrderController) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := oc.store.ListAll(r.Context())
	if err != nil {
		oc.log.Error("failed to list all orders", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, response{"success": true, "orders": orders})
}

type updateStatusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// UpdateOrderStatus sets an order's status to any of the enumerated values.
// Transitions are deliberately unrestricted so the admin can correct mistakes.
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}

	if err := oc.store.UpdateStatus(r.Context(), orderID, req.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		oc.log.Error("failed to update order status", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	order, err := oc.store.GetByID(r.Context(), orderID)
	if err != nil {
		oc.log.Error("failed to load updated order", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, response{
		"success": true,
		"message": "Order status updated successfully",
		"order":   order,
	})
}

// GetOrderDetails returns a single order with its address embedded.
func (oc *OrderController) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["orderId"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}

	order, err := oc.store.GetByID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		oc.log.Error("failed to load order", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, response{"success": true, "order": order})
}
