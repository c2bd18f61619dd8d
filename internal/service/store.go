package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/postgres"
)

// Store is the persistence surface the services depend on. *postgres.Store
// provides the production implementation via NewStore; tests substitute an
// in-memory fake.
type Store interface {
	// Guests
	CreateGuest(ctx context.Context, sessionToken string, expiresAt time.Time) (*domain.Guest, error)
	GetGuestByToken(ctx context.Context, sessionToken string) (*domain.Guest, error)
	GetGuestForUpdate(ctx context.Context, guestID uuid.UUID) (*domain.Guest, error)
	DeleteGuest(ctx context.Context, guestID uuid.UUID) error

	// Carts
	CreateCart(ctx context.Context, userID, guestID *uuid.UUID) (*domain.Cart, error)
	GetCartByID(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error)
	GetCartByUserID(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	GetCartByGuestID(ctx context.Context, guestID uuid.UUID) (*domain.Cart, error)
	TransferCartToUser(ctx context.Context, cartID, userID uuid.UUID) error
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
	UpsertCartItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int32) (*domain.CartItem, error)
	GetCartItem(ctx context.Context, itemID uuid.UUID) (*domain.CartItem, error)
	GetCartItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error)
	GetCartLines(ctx context.Context, cartID uuid.UUID) ([]domain.CartLine, error)
	SetCartItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int32) error
	DeleteCartItem(ctx context.Context, itemID uuid.UUID) error
	ClearCartItems(ctx context.Context, cartID uuid.UUID) error

	// Users and sessions
	CreateUser(ctx context.Context, email, name, passwordHash string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindOrCreateUserByEmail(ctx context.Context, email, name string) (*domain.User, error)
	CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.Session, error)
	GetSessionByToken(ctx context.Context, token string) (*domain.Session, error)
	DeleteSession(ctx context.Context, token string) error

	// Addresses
	CreateAddress(ctx context.Context, addr domain.Address) (*domain.Address, error)
	GetAddressByID(ctx context.Context, addressID uuid.UUID) (*domain.Address, error)
	GetDefaultAddress(ctx context.Context, userID uuid.UUID, addrType domain.AddressType) (*domain.Address, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]domain.Address, error)

	// Catalog read side
	GetVariantByID(ctx context.Context, variantID uuid.UUID) (*domain.ProductVariant, error)
	ProductExists(ctx context.Context, productID uuid.UUID) (bool, error)

	// Orders
	CreateOrder(ctx context.Context, params postgres.CreateOrderParams) (*domain.Order, error)
	GetOrderByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	GetOrderByStripeSessionID(ctx context.Context, sessionID string) (*domain.Order, error)
	GetOrderByStripePaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Order, error)
	CreateOrderItem(ctx context.Context, orderID, variantID uuid.UUID, quantity int32, priceAtPurchaseCents int64) (*domain.OrderItem, error)
	GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus) error
	MarkConfirmationEmailSent(ctx context.Context, orderID uuid.UUID) (bool, error)

	// Wishlist
	AddWishlistItem(ctx context.Context, userID, productID uuid.UUID) (*domain.WishlistItem, error)
	RemoveWishlistItem(ctx context.Context, userID, productID uuid.UUID) error
	ListWishlist(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error)

	// InTx runs fn inside a database transaction. The Store passed to fn
	// executes against the transaction; a nested call reuses it.
	InTx(ctx context.Context, fn func(Store) error) error
}

// pgStore adapts *postgres.Store to the Store interface. The embedded
// store contributes every data method; only InTx needs rewrapping so the
// callback receives a Store instead of the concrete type.
type pgStore struct {
	*postgres.Store
}

// NewStore wraps a postgres store for use by the services.
func NewStore(s *postgres.Store) Store {
	return pgStore{Store: s}
}

func (p pgStore) InTx(ctx context.Context, fn func(Store) error) error {
	return p.Store.InTx(ctx, func(tx *postgres.Store) error {
		return fn(pgStore{Store: tx})
	})
}
