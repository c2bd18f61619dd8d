package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/postgres"
)

// CartService provides business logic for shopping cart operations,
// including reconciling a guest's cart into a user's cart at sign-in.
type CartService interface {
	GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	GetOrCreateForGuest(ctx context.Context, guestID uuid.UUID) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int32) (*domain.CartSummary, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int32) (*domain.CartSummary, error)
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*domain.CartSummary, error)
	Summary(ctx context.Context, cartID uuid.UUID) (*domain.CartSummary, error)
	Clear(ctx context.Context, cartID uuid.UUID) error

	// MergeGuestCart folds the guest's cart into the user's cart and
	// deletes the guest. Safe to call for a guest that no longer exists.
	MergeGuestCart(ctx context.Context, guestID, userID uuid.UUID) error
}

type cartService struct {
	store Store
}

// NewCartService creates a new CartService instance
func NewCartService(store Store) CartService {
	return &cartService{store: store}
}

func (s *cartService) GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.store.GetCartByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !postgres.IsNotFound(err) {
		return nil, fmt.Errorf("failed to get user cart: %w", err)
	}

	cart, err = s.store.CreateCart(ctx, &userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user cart: %w", err)
	}
	return cart, nil
}

func (s *cartService) GetOrCreateForGuest(ctx context.Context, guestID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.store.GetCartByGuestID(ctx, guestID)
	if err == nil {
		return cart, nil
	}
	if !postgres.IsNotFound(err) {
		return nil, fmt.Errorf("failed to get guest cart: %w", err)
	}

	cart, err = s.store.CreateCart(ctx, nil, &guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to create guest cart: %w", err)
	}
	return cart, nil
}

// AddItem adds quantity of a variant to the cart. An existing line for the
// same variant absorbs the increment; there is never more than one line per
// (cart, variant).
func (s *cartService) AddItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int32) (*domain.CartSummary, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	variant, err := s.store.GetVariantByID(ctx, variantID)
	if err != nil {
		if postgres.IsNotFound(err) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to get variant: %w", err)
	}
	if !variant.InStock {
		return nil, ErrVariantOutOfStock
	}

	if _, err := s.store.UpsertCartItem(ctx, cartID, variantID, quantity); err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return s.Summary(ctx, cartID)
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int32) (*domain.CartSummary, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.store.GetCartItem(ctx, itemID)
	if err != nil {
		if postgres.IsNotFound(err) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	if item.CartID != cartID {
		return nil, ErrCartItemNotFound
	}

	if quantity == 0 {
		if err := s.store.DeleteCartItem(ctx, itemID); err != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", err)
		}
	} else {
		if err := s.store.SetCartItemQuantity(ctx, itemID, quantity); err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	return s.Summary(ctx, cartID)
}

func (s *cartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*domain.CartSummary, error) {
	return s.UpdateItemQuantity(ctx, cartID, itemID, 0)
}

func (s *cartService) Summary(ctx context.Context, cartID uuid.UUID) (*domain.CartSummary, error) {
	cart, err := s.store.GetCartByID(ctx, cartID)
	if err != nil {
		if postgres.IsNotFound(err) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	lines, err := s.store.GetCartLines(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart lines: %w", err)
	}

	summary := &domain.CartSummary{
		Cart:  *cart,
		Items: lines,
	}
	for _, line := range lines {
		summary.SubtotalCents += line.LineSubtotal
		summary.ItemCount += int(line.Quantity)
	}

	return summary, nil
}

func (s *cartService) Clear(ctx context.Context, cartID uuid.UUID) error {
	if err := s.store.ClearCartItems(ctx, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// MergeGuestCart reconciles the guest's cart into the user's cart inside a
// single transaction:
//
//   - user has no cart: re-point the guest cart's ownership, no item copies.
//   - both carts exist: add each guest quantity into the matching user line
//     (insert for misses), then delete the guest cart.
//   - no guest cart: nothing to move.
//
// Every branch deletes the guest row last. The row lock taken by
// GetGuestForUpdate makes the guest single-use: a concurrent merge for the
// same guest blocks, then finds the row gone and returns without touching
// either cart.
func (s *cartService) MergeGuestCart(ctx context.Context, guestID, userID uuid.UUID) error {
	return s.store.InTx(ctx, func(tx Store) error {
		if _, err := tx.GetGuestForUpdate(ctx, guestID); err != nil {
			if postgres.IsNotFound(err) {
				// Already merged by a racing sign-in.
				return nil
			}
			return fmt.Errorf("failed to lock guest: %w", err)
		}

		guestCart, err := tx.GetCartByGuestID(ctx, guestID)
		if err != nil && !postgres.IsNotFound(err) {
			return fmt.Errorf("failed to get guest cart: %w", err)
		}

		if guestCart != nil {
			if err := s.mergeInto(ctx, tx, guestCart, userID); err != nil {
				return err
			}
		}

		if err := tx.DeleteGuest(ctx, guestID); err != nil {
			return fmt.Errorf("failed to delete guest: %w", err)
		}
		return nil
	})
}

func (s *cartService) mergeInto(ctx context.Context, tx Store, guestCart *domain.Cart, userID uuid.UUID) error {
	userCart, err := tx.GetCartByUserID(ctx, userID)
	if err != nil {
		if !postgres.IsNotFound(err) {
			return fmt.Errorf("failed to get user cart: %w", err)
		}
		// No user cart: transfer ownership wholesale.
		if err := tx.TransferCartToUser(ctx, guestCart.ID, userID); err != nil {
			return fmt.Errorf("failed to transfer cart: %w", err)
		}
		return nil
	}

	items, err := tx.GetCartItems(ctx, guestCart.ID)
	if err != nil {
		return fmt.Errorf("failed to get guest cart items: %w", err)
	}

	for _, item := range items {
		// Quantities always add; an existing user line is never overwritten.
		if _, err := tx.UpsertCartItem(ctx, userCart.ID, item.ProductVariantID, item.Quantity); err != nil {
			return fmt.Errorf("failed to merge cart item: %w", err)
		}
	}

	if err := tx.DeleteCart(ctx, guestCart.ID); err != nil {
		return fmt.Errorf("failed to delete guest cart: %w", err)
	}
	return nil
}
