package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-drive/internal/model"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func accessClaims(sub string, role string, expiresIn time.Duration) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   sub,
		"email": "user@example.com",
		"role":  role,
		"typ":   "access",
		"exp":   time.Now().Add(expiresIn).Unix(),
	}
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	mw := NewAuthMiddleware(testSecret)

	var gotClaims *model.AuthClaims
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, testSecret, accessClaims("user-123", "admin", time.Hour))

		req := httptest.NewRequest("GET", "/api/v1/items", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotClaims)
		assert.Equal(t, "user-123", gotClaims.UserID)
		assert.Equal(t, "admin", gotClaims.Role)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/items", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "some-other-secret", accessClaims("user-123", "user", time.Hour))

		req := httptest.NewRequest("GET", "/api/v1/items", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, testSecret, accessClaims("user-123", "user", -time.Minute))

		req := httptest.NewRequest("GET", "/api/v1/items", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing expiry rejected", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{"sub": "user-123", "typ": "access"})

		req := httptest.NewRequest("GET", "/api/v1/items", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		claims := accessClaims("user-123", "user", time.Hour)
		claims["typ"] = "refresh"
		token := signToken(t, testSecret, claims)

		req := httptest.NewRequest("GET", "/api/v1/items", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthMiddleware_RequireRoles(t *testing.T) {
	mw := NewAuthMiddleware(testSecret)

	handler := mw.RequireAuth(mw.RequireRoles("admin", "manager")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("allowed role", func(t *testing.T) {
		token := signToken(t, testSecret, accessClaims("user-123", "manager", time.Hour))

		req := httptest.NewRequest("GET", "/api/v1/audit", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("disallowed role", func(t *testing.T) {
		token := signToken(t, testSecret, accessClaims("user-123", "user", time.Hour))

		req := httptest.NewRequest("GET", "/api/v1/audit", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
