package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/solesphere/storefront/internal/domain"
)

// WishlistService manages per-user product wishlists. Adding an already
// wished product is a no-op.
type WishlistService interface {
	Add(ctx context.Context, userID, productID uuid.UUID) (*domain.WishlistItem, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error)
}

type wishlistService struct {
	store Store
}

// NewWishlistService creates a new WishlistService instance
func NewWishlistService(store Store) WishlistService {
	return &wishlistService{store: store}
}

func (s *wishlistService) Add(ctx context.Context, userID, productID uuid.UUID) (*domain.WishlistItem, error) {
	exists, err := s.store.ProductExists(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if !exists {
		return nil, ErrProductNotFound
	}

	item, err := s.store.AddWishlistItem(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return item, nil
}

func (s *wishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.store.RemoveWishlistItem(ctx, userID, productID); err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return nil
}

func (s *wishlistService) List(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error) {
	items, err := s.store.ListWishlist(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return items, nil
}
