package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/store"
	"go-storefront/utils"
)

// UserStore is the persistence surface the account endpoints need.
type UserStore interface {
	Create(ctx context.Context, u models.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// UserController handles customer registration and authentication.
type UserController struct {
	store      UserStore
	production bool
	log        *slog.Logger
}

// NewUserController creates a new UserController. production toggles the
// Secure/SameSite cookie attributes.
func NewUserController(store UserStore, production bool, log *slog.Logger) *UserController {
	return &UserController{store: store, production: production, log: log}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register creates an account. No auth cookie is set here; the user must log
// in after signing up.
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Please fill all the fields")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Please fill all the fields")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Error("failed to hash password", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	_, err = uc.store.Create(r.Context(), models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
	})
	if errors.Is(err, store.ErrEmailTaken) {
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		uc.log.Error("failed to create user", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, response{
		"success": true,
		"message": "Account created. Please log in.",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and sets the customer auth cookie.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Please fill all the fields")
		return
	}

	user, err := uc.store.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "User does not exist")
		return
	}
	if err != nil {
		uc.log.Error("failed to look up user", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), utils.RoleUser)
	if err != nil {
		uc.log.Error("failed to generate token", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.SetAuthCookie(w, middleware.UserCookie, token, uc.production)

	writeJSON(w, http.StatusOK, response{
		"success": true,
		"message": "Logged in successfully",
		"user":    response{"name": user.Name, "email": user.Email},
	})
}

// IsAuth returns the authenticated caller's profile.
func (uc *UserController) IsAuth(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := uc.store.GetByID(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		uc.log.Error("failed to load user", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, response{"success": true, "user": user})
}

// Logout clears the customer auth cookie.
func (uc *UserController) Logout(w http.ResponseWriter, _ *http.Request) {
	utils.ClearAuthCookie(w, middleware.UserCookie, uc.production)
	writeJSON(w, http.StatusOK, response{"success": true, "message": "Logged out successfully"})
}
