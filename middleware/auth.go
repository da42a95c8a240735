package middleware

import (
	"context"
	"net/http"

	"go-storefront/utils"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// Auth cookie names. Customers and the seller authenticate independently so
// an admin can stay logged into both panels at once.
const (
	UserCookie   = "token"
	SellerCookie = "sellerToken"
)

// AuthUser verifies the customer auth cookie and attaches the claims to the
// request context.
func AuthUser(next http.Handler) http.Handler {
	return authCookie(next, UserCookie, utils.RoleUser)
}

// AuthSeller verifies the seller auth cookie and requires the seller role.
func AuthSeller(next http.Handler) http.Handler {
	return authCookie(next, SellerCookie, utils.RoleSeller)
}

func authCookie(next http.Handler, cookieName, role string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(cookieName)
		if err != nil || cookie.Value == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := utils.ParseJWT(cookie.Value)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		if claims.Role != role {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext extracts the auth claims set by AuthUser/AuthSeller.
func ClaimsFromContext(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*utils.Claims)
	return claims, ok
}
