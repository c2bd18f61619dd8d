package domain

import (
	"time"

	"github.com/google/uuid"
)

// Cart is owned by exactly one of a user or a guest, never both.
// The user_id XOR guest_id invariant is enforced by a database CHECK
// constraint; application code treats a cart with both set as corrupt.
type Cart struct {
	ID        uuid.UUID
	UserID    *uuid.UUID
	GuestID   *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem is a cart line item. At most one row exists per
// (cart_id, product_variant_id); quantity increments merge into that row.
type CartItem struct {
	ID               uuid.UUID
	CartID           uuid.UUID
	ProductVariantID uuid.UUID
	Quantity         int32
}

// CartLine is a cart item joined with live variant details for display
// and checkout. UnitPriceCents is the variant's current price, not a
// snapshot.
type CartLine struct {
	ID               uuid.UUID
	ProductVariantID uuid.UUID
	ProductName      string
	ImageURLs        []string
	Quantity         int32
	UnitPriceCents   int64
	LineSubtotal     int64
}

// CartSummary aggregates a cart with its lines and calculated totals.
type CartSummary struct {
	Cart          Cart
	Items         []CartLine
	SubtotalCents int64
	ItemCount     int
}
