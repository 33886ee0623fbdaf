package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go-drive/internal/model"
)

const defaultRequestTimeout = 30 * time.Second

// Timeout cuts off handlers that outlive the request budget. Batch endpoints
// carry their own cancellation semantics (partial progress is kept), so the
// deadline here only bounds how long a caller waits for a response.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	body, _ := json.Marshal(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    "REQUEST_TIMEOUT",
			Message: "request timed out",
		},
	})

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, string(body))
	}
}
