package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/utils"
)

func init() {
	utils.JwtKey = []byte("test-secret")
}

func claimsCapture(t *testing.T, got **utils.Claims) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		*got = claims
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthUser_ValidCookie(t *testing.T) {
	token, err := utils.GenerateJWT("507f1f77bcf86cd799439011", utils.RoleUser)
	require.NoError(t, err)

	var got *utils.Claims
	handler := AuthUser(claimsCapture(t, &got))

	req := httptest.NewRequest("GET", "/api/user/is-auth", nil)
	req.AddCookie(&http.Cookie{Name: UserCookie, Value: token})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "507f1f77bcf86cd799439011", got.ID)
}

func TestAuthUser_MissingCookie(t *testing.T) {
	handler := AuthUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/user/is-auth", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthUser_GarbageToken(t *testing.T) {
	handler := AuthUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/user/is-auth", nil)
	req.AddCookie(&http.Cookie{Name: UserCookie, Value: "not-a-jwt"})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthSeller_RejectsUserToken(t *testing.T) {
	token, err := utils.GenerateJWT("507f1f77bcf86cd799439011", utils.RoleUser)
	require.NoError(t, err)

	handler := AuthSeller(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	// a customer token stuffed into the seller cookie must not grant admin
	req := httptest.NewRequest("GET", "/api/seller/is-auth", nil)
	req.AddCookie(&http.Cookie{Name: SellerCookie, Value: token})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAuthSeller_ValidCookie(t *testing.T) {
	token, err := utils.GenerateJWT("admin@example.com", utils.RoleSeller)
	require.NoError(t, err)

	var got *utils.Claims
	handler := AuthSeller(claimsCapture(t, &got))

	req := httptest.NewRequest("GET", "/api/seller/is-auth", nil)
	req.AddCookie(&http.Cookie{Name: SellerCookie, Value: token})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, utils.RoleSeller, got.Role)
}
