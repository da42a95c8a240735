package utils

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// JWT secret key, set from configuration at startup.
var JwtKey []byte

// Roles carried in token claims.
const (
	RoleUser   = "user"
	RoleSeller = "seller"
)

const tokenTTL = 7 * 24 * time.Hour

// Claims represents the JWT claims stored in auth cookies.
type Claims struct {
	ID   string `json:"id,omitempty"`
	Role string `json:"role"`
	jwt.StandardClaims
}

// GenerateJWT signs a token for the given subject id and role, valid for
// seven days.
func GenerateJWT(id, role string) (string, error) {
	claims := &Claims{
		ID:   id,
		Role: role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(tokenTTL).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtKey)
}

// ParseJWT verifies a token string and returns its claims.
func ParseJWT(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.NewValidationError("invalid token", jwt.ValidationErrorClaimsInvalid)
	}
	return claims, nil
}

// SetAuthCookie writes an httpOnly auth cookie. Secure and SameSite=None are
// used outside local development so the browser sends it cross-site.
func SetAuthCookie(w http.ResponseWriter, name, token string, production bool) {
	http.SetCookie(w, authCookie(name, token, int(tokenTTL.Seconds()), production))
}

// ClearAuthCookie expires the named auth cookie.
func ClearAuthCookie(w http.ResponseWriter, name string, production bool) {
	http.SetCookie(w, authCookie(name, "", -1, production))
}

func authCookie(name, value string, maxAge int, production bool) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if production {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   production,
		SameSite: sameSite,
	}
}
