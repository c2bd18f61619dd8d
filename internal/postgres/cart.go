package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/solesphere/storefront/internal/domain"
)

const cartColumns = `id, user_id, guest_id, created_at, updated_at`

// CreateCart inserts a cart owned by either a user or a guest. The
// user_id XOR guest_id invariant is enforced by a CHECK constraint.
func (s *Store) CreateCart(ctx context.Context, userID, guestID *uuid.UUID) (*domain.Cart, error) {
	var c domain.Cart
	err := s.db.QueryRow(ctx, `
		INSERT INTO carts (user_id, guest_id)
		VALUES ($1, $2)
		RETURNING `+cartColumns,
		userID, guestID,
	).Scan(&c.ID, &c.UserID, &c.GuestID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &c, nil
}

// GetCartByID retrieves a cart by primary key.
func (s *Store) GetCartByID(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error) {
	return s.getCart(ctx, `SELECT `+cartColumns+` FROM carts WHERE id = $1`, cartID)
}

// GetCartByUserID retrieves the cart owned by a user, if any.
func (s *Store) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	return s.getCart(ctx, `SELECT `+cartColumns+` FROM carts WHERE user_id = $1`, userID)
}

// GetCartByGuestID retrieves the cart owned by a guest, if any.
func (s *Store) GetCartByGuestID(ctx context.Context, guestID uuid.UUID) (*domain.Cart, error) {
	return s.getCart(ctx, `SELECT `+cartColumns+` FROM carts WHERE guest_id = $1`, guestID)
}

func (s *Store) getCart(ctx context.Context, query string, arg any) (*domain.Cart, error) {
	var c domain.Cart
	err := s.db.QueryRow(ctx, query, arg).Scan(&c.ID, &c.UserID, &c.GuestID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// TransferCartToUser re-points a guest cart's ownership to a user.
// This is the O(1) merge branch for users with no existing cart.
func (s *Store) TransferCartToUser(ctx context.Context, cartID, userID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE carts
		SET user_id = $2, guest_id = NULL, updated_at = now()
		WHERE id = $1`,
		cartID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to transfer cart: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cart %s not found for transfer", cartID)
	}
	return nil
}

// DeleteCart removes a cart; its items cascade.
func (s *Store) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// UpsertCartItem adds quantity of a variant to a cart. If the variant is
// already in the cart the quantities merge; duplicate rows per
// (cart_id, product_variant_id) cannot exist.
func (s *Store) UpsertCartItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int32) (*domain.CartItem, error) {
	var it domain.CartItem
	err := s.db.QueryRow(ctx, `
		INSERT INTO cart_items (cart_id, product_variant_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_variant_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, cart_id, product_variant_id, quantity`,
		cartID, variantID, quantity,
	).Scan(&it.ID, &it.CartID, &it.ProductVariantID, &it.Quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert cart item: %w", err)
	}
	return &it, nil
}

// GetCartItem retrieves a single cart item by id.
func (s *Store) GetCartItem(ctx context.Context, itemID uuid.UUID) (*domain.CartItem, error) {
	var it domain.CartItem
	err := s.db.QueryRow(ctx, `
		SELECT id, cart_id, product_variant_id, quantity
		FROM cart_items
		WHERE id = $1`,
		itemID,
	).Scan(&it.ID, &it.CartID, &it.ProductVariantID, &it.Quantity)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// GetCartItems lists the raw items of a cart.
func (s *Store) GetCartItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, cart_id, product_variant_id, quantity
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY id`,
		cartID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductVariantID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetCartLines lists cart items joined with live variant details.
// Prices are the variant's current price, never a client-supplied value.
func (s *Store) GetCartLines(ctx context.Context, cartID uuid.UUID) ([]domain.CartLine, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ci.id, ci.product_variant_id, p.name, ci.quantity, v.price_cents,
		       COALESCE(array_agg(pi.url ORDER BY pi.sort_order) FILTER (WHERE pi.url IS NOT NULL), '{}')
		FROM cart_items ci
		JOIN product_variants v ON v.id = ci.product_variant_id
		JOIN products p ON p.id = v.product_id
		LEFT JOIN product_images pi ON pi.product_id = p.id
		WHERE ci.cart_id = $1
		GROUP BY ci.id, ci.product_variant_id, p.name, ci.quantity, v.price_cents
		ORDER BY ci.id`,
		cartID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ID, &l.ProductVariantID, &l.ProductName, &l.Quantity, &l.UnitPriceCents, &l.ImageURLs); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		l.LineSubtotal = int64(l.Quantity) * l.UnitPriceCents
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// SetCartItemQuantity overwrites a cart item's quantity.
func (s *Store) SetCartItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int32) error {
	tag, err := s.db.Exec(ctx, `UPDATE cart_items SET quantity = $2 WHERE id = $1`, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cart item %s not found", itemID)
	}
	return nil
}

// DeleteCartItem removes a single item from a cart.
func (s *Store) DeleteCartItem(ctx context.Context, itemID uuid.UUID) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID); err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

// ClearCartItems removes every item from a cart, leaving the cart row.
func (s *Store) ClearCartItems(ctx context.Context, cartID uuid.UUID) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
