package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order. Status only moves
// forward; an order never regresses from paid back to pending.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// rank orders statuses for forward-only transitions. Cancelled is terminal
// and unreachable through the normal progression.
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusPaid:      1,
	OrderStatusShipped:   2,
	OrderStatusDelivered: 3,
}

// CanTransition reports whether an order may move from to next.
// Cancellation is allowed from any non-terminal state.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s == OrderStatusCancelled || s == OrderStatusDelivered {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	cur, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	nxt, ok := orderStatusRank[next]
	if !ok {
		return false
	}
	return nxt > cur
}

// Order is the terminal record of a completed purchase.
//
// StripeSessionID and StripePaymentIntentID are the idempotency keys for
// fulfillment: at most one order may ever exist per session id and per
// payment intent id, enforced by unique indexes.
type Order struct {
	ID                    uuid.UUID
	UserID                uuid.UUID
	Status                OrderStatus
	TotalAmountCents      int64
	ShippingAddressID     uuid.UUID
	BillingAddressID      uuid.UUID
	StripeSessionID       string
	StripePaymentIntentID string
	ConfirmationEmailSent bool
	CreatedAt             time.Time
}

// OrderItem is an immutable snapshot of a purchased line.
// PriceAtPurchaseCents is captured at fulfillment time and is never
// recomputed from the live catalog.
type OrderItem struct {
	ID                   uuid.UUID
	OrderID              uuid.UUID
	ProductVariantID     uuid.UUID
	Quantity             int32
	PriceAtPurchaseCents int64
}

// OrderDetail aggregates an order with its items for display and email.
type OrderDetail struct {
	Order Order
	Items []OrderItem
}
