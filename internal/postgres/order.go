package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/solesphere/storefront/internal/domain"
)

const orderColumns = `id, user_id, status, total_amount_cents, shipping_address_id,
	billing_address_id, COALESCE(stripe_session_id, ''), COALESCE(stripe_payment_intent_id, ''),
	confirmation_email_sent, created_at`

// CreateOrderParams contains the fields for inserting an order.
type CreateOrderParams struct {
	UserID                uuid.UUID
	Status                domain.OrderStatus
	TotalAmountCents      int64
	ShippingAddressID     uuid.UUID
	BillingAddressID      uuid.UUID
	StripeSessionID       string
	StripePaymentIntentID string
}

// CreateOrder inserts an order row. The unique indexes on
// stripe_session_id and stripe_payment_intent_id make this insert the
// concurrency control point for fulfillment: a racing insert for the same
// payment fails with a unique violation rather than creating a duplicate.
func (s *Store) CreateOrder(ctx context.Context, params CreateOrderParams) (*domain.Order, error) {
	var o domain.Order
	err := s.db.QueryRow(ctx, `
		INSERT INTO orders (user_id, status, total_amount_cents, shipping_address_id,
			billing_address_id, stripe_session_id, stripe_payment_intent_id)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		RETURNING `+orderColumns,
		params.UserID, params.Status, params.TotalAmountCents,
		params.ShippingAddressID, params.BillingAddressID,
		params.StripeSessionID, params.StripePaymentIntentID,
	).Scan(orderFields(&o)...)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrderByID retrieves an order by primary key.
func (s *Store) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return s.getOrder(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
}

// GetOrderByStripeSessionID retrieves an order by its checkout session id.
// This is the primary idempotency lookup for fulfillment.
func (s *Store) GetOrderByStripeSessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	return s.getOrder(ctx, `SELECT `+orderColumns+` FROM orders WHERE stripe_session_id = $1`, sessionID)
}

// GetOrderByStripePaymentIntentID retrieves an order by its payment intent
// id, the secondary idempotency lookup.
func (s *Store) GetOrderByStripePaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Order, error) {
	return s.getOrder(ctx, `SELECT `+orderColumns+` FROM orders WHERE stripe_payment_intent_id = $1`, paymentIntentID)
}

func (s *Store) getOrder(ctx context.Context, query string, arg any) (*domain.Order, error) {
	var o domain.Order
	if err := s.db.QueryRow(ctx, query, arg).Scan(orderFields(&o)...); err != nil {
		return nil, err
	}
	return &o, nil
}

func orderFields(o *domain.Order) []any {
	return []any{
		&o.ID, &o.UserID, &o.Status, &o.TotalAmountCents, &o.ShippingAddressID,
		&o.BillingAddressID, &o.StripeSessionID, &o.StripePaymentIntentID,
		&o.ConfirmationEmailSent, &o.CreatedAt,
	}
}

// CreateOrderItem inserts an immutable purchase snapshot line.
func (s *Store) CreateOrderItem(ctx context.Context, orderID, variantID uuid.UUID, quantity int32, priceAtPurchaseCents int64) (*domain.OrderItem, error) {
	var it domain.OrderItem
	err := s.db.QueryRow(ctx, `
		INSERT INTO order_items (order_id, product_variant_id, quantity, price_at_purchase_cents)
		VALUES ($1, $2, $3, $4)
		RETURNING id, order_id, product_variant_id, quantity, price_at_purchase_cents`,
		orderID, variantID, quantity, priceAtPurchaseCents,
	).Scan(&it.ID, &it.OrderID, &it.ProductVariantID, &it.Quantity, &it.PriceAtPurchaseCents)
	if err != nil {
		return nil, fmt.Errorf("failed to create order item: %w", err)
	}
	return &it, nil
}

// GetOrderItems lists the items of an order.
func (s *Store) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, order_id, product_variant_id, quantity, price_at_purchase_cents
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductVariantID, &it.Quantity, &it.PriceAtPurchaseCents); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateOrderStatus moves an order's status forward. The WHERE clause
// re-checks the current status so a stale caller cannot regress the order;
// zero rows affected means the transition was not permitted.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus) error {
	if !from.CanTransition(to) {
		return domain.Conflict("order.status", fmt.Sprintf("cannot transition order from %s to %s", from, to))
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE orders SET status = $3 WHERE id = $1 AND status = $2`,
		orderID, from, to,
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Conflict("order.status", "order status changed concurrently")
	}
	return nil
}

// MarkConfirmationEmailSent flips the confirmation flag. Returns false if
// the flag was already set, so only one caller ever sends the email.
func (s *Store) MarkConfirmationEmailSent(ctx context.Context, orderID uuid.UUID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET confirmation_email_sent = TRUE
		WHERE id = $1 AND confirmation_email_sent = FALSE`,
		orderID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark confirmation email sent: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
