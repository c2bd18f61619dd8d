package domain

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem marks a product a user wants to remember. At most one row
// exists per (user_id, product_id); adding twice is a no-op.
type WishlistItem struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	AddedAt   time.Time
}
