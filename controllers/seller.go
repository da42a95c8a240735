package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/utils"
)

// SellerUserLister lists accounts for the admin panel.
type SellerUserLister interface {
	ListAll(ctx context.Context) ([]models.User, error)
}

// SellerController handles the admin panel's authentication and user listing.
// There is a single seller identity, configured through the environment.
type SellerController struct {
	users      SellerUserLister
	email      string
	password   string
	production bool
	log        *slog.Logger
}

// NewSellerController creates a new SellerController with the configured
// seller credentials.
func NewSellerController(users SellerUserLister, email, password string, production bool, log *slog.Logger) *SellerController {
	return &SellerController{
		users:      users,
		email:      email,
		password:   password,
		production: production,
		log:        log,
	}
}

// Login verifies the seller credentials and sets the seller auth cookie.
func (sc *SellerController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	if req.Email != sc.email || req.Password != sc.password {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(req.Email, utils.RoleSeller)
	if err != nil {
		sc.log.Error("failed to generate seller token", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.SetAuthCookie(w, middleware.SellerCookie, token, sc.production)

	writeJSON(w, http.StatusOK, response{"success": true, "message": "Login successful"})
}

// IsAuth confirms the seller cookie is valid.
func (sc *SellerController) IsAuth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, response{"success": true})
}

// Logout clears the seller auth cookie.
func (sc *SellerController) Logout(w http.ResponseWriter, _ *http.Request) {
	utils.ClearAuthCookie(w, middleware.SellerCookie, sc.production)
	writeJSON(w, http.StatusOK, response{"success": true, "message": "Logged out successfully"})
}

// ListUsers returns every customer account for the admin panel, newest first.
func (sc *SellerController) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := sc.users.ListAll(r.Context())
	if err != nil {
		sc.log.Error("failed to list users", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	writeJSON(w, http.StatusOK, response{"success": true, "users": users})
}
