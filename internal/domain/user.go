package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated shopper identity. PasswordHash is empty for
// accounts created during guest fulfillment (the shopper completed payment
// on the gateway's hosted page with no local account); such users can claim
// the account later through the password reset flow.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is an authenticated browser session, carried by an opaque token
// in the session cookie.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
