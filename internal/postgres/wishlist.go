package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/solesphere/storefront/internal/domain"
)

// AddWishlistItem records a product on the user's wishlist. Adding a
// product that is already listed is a no-op; the existing row is returned.
func (s *Store) AddWishlistItem(ctx context.Context, userID, productID uuid.UUID) (*domain.WishlistItem, error) {
	var w domain.WishlistItem
	err := s.db.QueryRow(ctx, `
		INSERT INTO wishlists (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING
		RETURNING id, user_id, product_id, added_at`,
		userID, productID,
	).Scan(&w.ID, &w.UserID, &w.ProductID, &w.AddedAt)
	if err == nil {
		return &w, nil
	}
	if !IsNotFound(err) {
		return nil, fmt.Errorf("failed to add wishlist item: %w", err)
	}

	err = s.db.QueryRow(ctx, `
		SELECT id, user_id, product_id, added_at
		FROM wishlists
		WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	).Scan(&w.ID, &w.UserID, &w.ProductID, &w.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist item: %w", err)
	}
	return &w, nil
}

// RemoveWishlistItem deletes a product from the user's wishlist.
func (s *Store) RemoveWishlistItem(ctx context.Context, userID, productID uuid.UUID) error {
	if _, err := s.db.Exec(ctx, `
		DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	); err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return nil
}

// ListWishlist returns the user's wishlist, newest first.
func (s *Store) ListWishlist(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, product_id, added_at
		FROM wishlists
		WHERE user_id = $1
		ORDER BY added_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	defer rows.Close()

	var items []domain.WishlistItem
	for rows.Next() {
		var w domain.WishlistItem
		if err := rows.Scan(&w.ID, &w.UserID, &w.ProductID, &w.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, w)
	}
	return items, rows.Err()
}
