package domain

import (
	"time"

	"github.com/google/uuid"
)

// Guest is an anonymous shopper identity carried by the guest_session cookie.
// A guest exists only to persist a cart before sign-in; it is deleted the
// moment its cart merges into a user's cart. An expired guest must be treated
// exactly like an absent one.
type Guest struct {
	ID           uuid.UUID
	SessionToken string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// Expired reports whether the guest session is no longer valid.
// A guest whose expiry equals now is already expired.
func (g *Guest) Expired(now time.Time) bool {
	return !g.ExpiresAt.After(now)
}
