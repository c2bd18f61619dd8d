package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/solesphere/storefront/internal/domain"
)

// GetVariantByID retrieves a product variant with its product name and
// image URLs, the read-side view the cart and checkout consume.
func (s *Store) GetVariantByID(ctx context.Context, variantID uuid.UUID) (*domain.ProductVariant, error) {
	var v domain.ProductVariant
	err := s.db.QueryRow(ctx, `
		SELECT v.id, v.product_id, p.name, v.sku, v.price_cents, v.in_stock,
		       COALESCE(array_agg(pi.url ORDER BY pi.sort_order) FILTER (WHERE pi.url IS NOT NULL), '{}')
		FROM product_variants v
		JOIN products p ON p.id = v.product_id
		LEFT JOIN product_images pi ON pi.product_id = p.id
		WHERE v.id = $1
		GROUP BY v.id, v.product_id, p.name, v.sku, v.price_cents, v.in_stock`,
		variantID,
	).Scan(&v.ID, &v.ProductID, &v.ProductName, &v.SKU, &v.PriceCents, &v.InStock, &v.ImageURLs)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ProductExists reports whether a product id refers to a live product.
func (s *Store) ProductExists(ctx context.Context, productID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product: %w", err)
	}
	return exists, nil
}
