package domain

import "github.com/google/uuid"

// ProductVariant is the read-side catalog view the cart and checkout
// consume. Catalog management itself lives outside this service.
type ProductVariant struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	SKU         string
	PriceCents  int64
	ImageURLs   []string
	InStock     bool
}
