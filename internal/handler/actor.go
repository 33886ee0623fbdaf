package handler

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"go-drive/internal/middleware"
	"go-drive/internal/model"
)

// actorFromRequest assembles the audit actor from the validated token claims
// plus network metadata. The identity itself is trusted as issued.
func actorFromRequest(r *http.Request) model.Actor {
	actor := model.Actor{
		IP:        clientIP(r),
		UserAgent: strings.TrimSpace(r.UserAgent()),
	}

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return actor
	}

	if id, err := uuid.Parse(claims.UserID); err == nil {
		actor.ID = id
	}
	actor.Email = claims.Email

	return actor
}

func clientIP(r *http.Request) string {
	xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}

	xri := strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil {
		return host
	}

	return strings.TrimSpace(r.RemoteAddr)
}
