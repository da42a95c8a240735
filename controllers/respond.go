package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/middleware"
)

// validate checks boundary request structs once, at decode time.
var validate = validator.New()

// response is the JSON envelope every endpoint answers with.
type response map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{"success": false, "message": message})
}

// userIDFromRequest resolves the authenticated caller's id from the claims the
// auth middleware attached to the context.
func userIDFromRequest(r *http.Request) (primitive.ObjectID, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
