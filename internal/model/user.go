package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a row in the identity-to-role relation. Accounts are provisioned by
// the external identity provider; this service only reads them to resolve
// roles.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthClaims are the JWT claims this service trusts from the identity
// provider's access tokens.
type AuthClaims struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Type   string `json:"typ"`
}
