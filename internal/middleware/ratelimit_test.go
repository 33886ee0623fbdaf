package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware_GeneralTraffic(t *testing.T) {
	mw := NewRateLimitMiddleware(100, 1)
	handler := mw.Handler(okHandler())

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("GET", "/api/v1/items", nil)
		req.RemoteAddr = "192.0.2.10:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("request %d failed with status %d", i, rec.Code)
		}
	}
}

func TestRateLimitMiddleware_BatchEndpointsStricter(t *testing.T) {
	// batchRPM = 1 means burst 1: the second immediate batch request is
	// rejected while general traffic still flows.
	mw := NewRateLimitMiddleware(100, 1)
	handler := mw.Handler(okHandler())

	req1 := httptest.NewRequest("POST", "/api/v1/items/move", nil)
	req1.RemoteAddr = "192.0.2.20:1234"
	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, req1)
	assert.Equal(t, http.StatusOK, rec1.Code)

	req2 := httptest.NewRequest("POST", "/api/v1/items/move", nil)
	req2.RemoteAddr = "192.0.2.20:1234"
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusTooManyRequests, rec2.Code)
	assert.Equal(t, "60", rec2.Header().Get("Retry-After"))

	req3 := httptest.NewRequest("GET", "/api/v1/items", nil)
	req3.RemoteAddr = "192.0.2.20:1234"
	rec3 := httptest.NewRecorder()
	handler.ServeHTTP(rec3, req3)
	assert.Equal(t, http.StatusOK, rec3.Code)
}

func TestRateLimitMiddleware_LimitersArePerClient(t *testing.T) {
	mw := NewRateLimitMiddleware(100, 1)
	handler := mw.Handler(okHandler())

	req1 := httptest.NewRequest("POST", "/api/v1/trash/empty", nil)
	req1.RemoteAddr = "192.0.2.30:1234"
	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, req1)
	assert.Equal(t, http.StatusOK, rec1.Code)

	// A different client gets its own budget.
	req2 := httptest.NewRequest("POST", "/api/v1/trash/empty", nil)
	req2.RemoteAddr = "192.0.2.31:1234"
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusOK, rec2.Code)
}

func TestRateLimitMiddleware_ForwardedForWins(t *testing.T) {
	mw := NewRateLimitMiddleware(100, 1)
	handler := mw.Handler(okHandler())

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest("POST", "/api/v1/items/move", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "request %d", i)
	}
}

func TestRateLimitMiddleware_Configuration(t *testing.T) {
	mw := NewRateLimitMiddleware(0, -1)
	assert.Equal(t, 100, mw.generalRPM)
	assert.Equal(t, 30, mw.batchRPM)
}
