package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/postgres"
)

// fakeStore is an in-memory Store that mimics the database semantics the
// services rely on: pgx.ErrNoRows for missing rows, unique-violation
// errors for duplicate inserts, quantity-adding upserts, and cascading
// deletes. Tests that need a specific failure embed it and override the
// relevant method.
type fakeStore struct {
	mu sync.Mutex

	guests     map[uuid.UUID]domain.Guest
	carts      map[uuid.UUID]domain.Cart
	cartItems  map[uuid.UUID]domain.CartItem
	users      map[uuid.UUID]domain.User
	sessions   map[uuid.UUID]domain.Session
	addresses  map[uuid.UUID]domain.Address
	variants   map[uuid.UUID]domain.ProductVariant
	products   map[uuid.UUID]bool
	orders     map[uuid.UUID]domain.Order
	orderItems map[uuid.UUID]domain.OrderItem
	wishlists  map[uuid.UUID]domain.WishlistItem
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		guests:     make(map[uuid.UUID]domain.Guest),
		carts:      make(map[uuid.UUID]domain.Cart),
		cartItems:  make(map[uuid.UUID]domain.CartItem),
		users:      make(map[uuid.UUID]domain.User),
		sessions:   make(map[uuid.UUID]domain.Session),
		addresses:  make(map[uuid.UUID]domain.Address),
		variants:   make(map[uuid.UUID]domain.ProductVariant),
		products:   make(map[uuid.UUID]bool),
		orders:     make(map[uuid.UUID]domain.Order),
		orderItems: make(map[uuid.UUID]domain.OrderItem),
		wishlists:  make(map[uuid.UUID]domain.WishlistItem),
	}
}

var errUniqueViolation = &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}

// addVariant seeds a product and one of its variants.
func (f *fakeStore) addVariant(name string, priceCents int64) domain.ProductVariant {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := domain.ProductVariant{
		ID:          uuid.New(),
		ProductID:   uuid.New(),
		ProductName: name,
		SKU:         name,
		PriceCents:  priceCents,
		InStock:     true,
	}
	f.variants[v.ID] = v
	f.products[v.ProductID] = true
	return v
}

// Guests

func (f *fakeStore) CreateGuest(ctx context.Context, token string, expiresAt time.Time) (*domain.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.guests {
		if g.SessionToken == token {
			return nil, errUniqueViolation
		}
	}
	g := domain.Guest{ID: uuid.New(), SessionToken: token, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	f.guests[g.ID] = g
	return &g, nil
}

func (f *fakeStore) GetGuestByToken(ctx context.Context, token string) (*domain.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.guests {
		if g.SessionToken == token {
			out := g
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) GetGuestForUpdate(ctx context.Context, guestID uuid.UUID) (*domain.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guests[guestID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &g, nil
}

func (f *fakeStore) DeleteGuest(ctx context.Context, guestID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.guests, guestID)
	for id, c := range f.carts {
		if c.GuestID != nil && *c.GuestID == guestID {
			f.deleteCartLocked(id)
		}
	}
	return nil
}

// Carts

func (f *fakeStore) CreateCart(ctx context.Context, userID, guestID *uuid.UUID) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.carts {
		if userID != nil && c.UserID != nil && *c.UserID == *userID {
			return nil, errUniqueViolation
		}
		if guestID != nil && c.GuestID != nil && *c.GuestID == *guestID {
			return nil, errUniqueViolation
		}
	}
	c := domain.Cart{ID: uuid.New(), UserID: userID, GuestID: guestID, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.carts[c.ID] = c
	return &c, nil
}

func (f *fakeStore) GetCartByID(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[cartID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

func (f *fakeStore) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.carts {
		if c.UserID != nil && *c.UserID == userID {
			out := c
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) GetCartByGuestID(ctx context.Context, guestID uuid.UUID) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.carts {
		if c.GuestID != nil && *c.GuestID == guestID {
			out := c
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) TransferCartToUser(ctx context.Context, cartID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[cartID]
	if !ok {
		return pgx.ErrNoRows
	}
	c.UserID = &userID
	c.GuestID = nil
	f.carts[cartID] = c
	return nil
}

func (f *fakeStore) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCartLocked(cartID)
	return nil
}

func (f *fakeStore) deleteCartLocked(cartID uuid.UUID) {
	delete(f.carts, cartID)
	for id, item := range f.cartItems {
		if item.CartID == cartID {
			delete(f.cartItems, id)
		}
	}
}

func (f *fakeStore) UpsertCartItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int32) (*domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, item := range f.cartItems {
		if item.CartID == cartID && item.ProductVariantID == variantID {
			item.Quantity += quantity
			f.cartItems[id] = item
			return &item, nil
		}
	}
	item := domain.CartItem{ID: uuid.New(), CartID: cartID, ProductVariantID: variantID, Quantity: quantity}
	f.cartItems[item.ID] = item
	return &item, nil
}

func (f *fakeStore) GetCartItem(ctx context.Context, itemID uuid.UUID) (*domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.cartItems[itemID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &item, nil
}

func (f *fakeStore) GetCartItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.CartItem
	for _, item := range f.cartItems {
		if item.CartID == cartID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeStore) GetCartLines(ctx context.Context, cartID uuid.UUID) ([]domain.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.CartLine
	for _, item := range f.cartItems {
		if item.CartID != cartID {
			continue
		}
		v := f.variants[item.ProductVariantID]
		out = append(out, domain.CartLine{
			ID:               item.ID,
			ProductVariantID: item.ProductVariantID,
			ProductName:      v.ProductName,
			ImageURLs:        v.ImageURLs,
			Quantity:         item.Quantity,
			UnitPriceCents:   v.PriceCents,
			LineSubtotal:     v.PriceCents * int64(item.Quantity),
		})
	}
	return out, nil
}

func (f *fakeStore) SetCartItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.cartItems[itemID]
	if !ok {
		return pgx.ErrNoRows
	}
	item.Quantity = quantity
	f.cartItems[itemID] = item
	return nil
}

func (f *fakeStore) DeleteCartItem(ctx context.Context, itemID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cartItems, itemID)
	return nil
}

func (f *fakeStore) ClearCartItems(ctx context.Context, cartID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, item := range f.cartItems {
		if item.CartID == cartID {
			delete(f.cartItems, id)
		}
	}
	return nil
}

// Users and sessions

func (f *fakeStore) CreateUser(ctx context.Context, emailAddr, name, passwordHash string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == emailAddr {
			return nil, errUniqueViolation
		}
	}
	u := domain.User{ID: uuid.New(), Email: emailAddr, Name: name, PasswordHash: passwordHash, CreatedAt: time.Now()}
	f.users[u.ID] = u
	return &u, nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, emailAddr string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == emailAddr {
			out := u
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) FindOrCreateUserByEmail(ctx context.Context, emailAddr, name string) (*domain.User, error) {
	if u, err := f.GetUserByEmail(ctx, emailAddr); err == nil {
		return u, nil
	}
	return f.CreateUser(ctx, emailAddr, name, "")
}

func (f *fakeStore) CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := domain.Session{ID: uuid.New(), UserID: userID, Token: token, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	f.sessions[s.ID] = s
	return &s, nil
}

func (f *fakeStore) GetSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.Token == token && s.ExpiresAt.After(time.Now()) {
			out := s
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) DeleteSession(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.sessions {
		if s.Token == token {
			delete(f.sessions, id)
		}
	}
	return nil
}

// Addresses

func (f *fakeStore) CreateAddress(ctx context.Context, addr domain.Address) (*domain.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	addr.ID = uuid.New()
	f.addresses[addr.ID] = addr
	return &addr, nil
}

func (f *fakeStore) GetAddressByID(ctx context.Context, addressID uuid.UUID) (*domain.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.addresses[addressID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &a, nil
}

func (f *fakeStore) GetDefaultAddress(ctx context.Context, userID uuid.UUID, addrType domain.AddressType) (*domain.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var fallback *domain.Address
	for _, a := range f.addresses {
		if a.UserID != userID || a.Type != addrType {
			continue
		}
		out := a
		if a.IsDefault {
			return &out, nil
		}
		fallback = &out
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) ListAddresses(ctx context.Context, userID uuid.UUID) ([]domain.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Address
	for _, a := range f.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

// Catalog

func (f *fakeStore) GetVariantByID(ctx context.Context, variantID uuid.UUID) (*domain.ProductVariant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.variants[variantID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &v, nil
}

func (f *fakeStore) ProductExists(ctx context.Context, productID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[productID], nil
}

// Orders

func (f *fakeStore) CreateOrder(ctx context.Context, params postgres.CreateOrderParams) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if params.StripeSessionID != "" && o.StripeSessionID == params.StripeSessionID {
			return nil, errUniqueViolation
		}
		if params.StripePaymentIntentID != "" && o.StripePaymentIntentID == params.StripePaymentIntentID {
			return nil, errUniqueViolation
		}
	}
	o := domain.Order{
		ID:                    uuid.New(),
		UserID:                params.UserID,
		Status:                params.Status,
		TotalAmountCents:      params.TotalAmountCents,
		ShippingAddressID:     params.ShippingAddressID,
		BillingAddressID:      params.BillingAddressID,
		StripeSessionID:       params.StripeSessionID,
		StripePaymentIntentID: params.StripePaymentIntentID,
		CreatedAt:             time.Now(),
	}
	f.orders[o.ID] = o
	return &o, nil
}

func (f *fakeStore) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &o, nil
}

func (f *fakeStore) GetOrderByStripeSessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.StripeSessionID == sessionID {
			out := o
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) GetOrderByStripePaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.StripePaymentIntentID == paymentIntentID {
			out := o
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) CreateOrderItem(ctx context.Context, orderID, variantID uuid.UUID, quantity int32, priceAtPurchaseCents int64) (*domain.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item := domain.OrderItem{
		ID:                   uuid.New(),
		OrderID:              orderID,
		ProductVariantID:     variantID,
		Quantity:             quantity,
		PriceAtPurchaseCents: priceAtPurchaseCents,
	}
	f.orderItems[item.ID] = item
	return &item, nil
}

func (f *fakeStore) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.OrderItem
	for _, item := range f.orderItems {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok || o.Status != from {
		return pgx.ErrNoRows
	}
	if !from.CanTransition(to) {
		return domain.Errorf(domain.ECONFLICT, "", "Invalid order status transition")
	}
	o.Status = to
	f.orders[orderID] = o
	return nil
}

func (f *fakeStore) MarkConfirmationEmailSent(ctx context.Context, orderID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return false, pgx.ErrNoRows
	}
	if o.ConfirmationEmailSent {
		return false, nil
	}
	o.ConfirmationEmailSent = true
	f.orders[orderID] = o
	return true, nil
}

// Wishlist

func (f *fakeStore) AddWishlistItem(ctx context.Context, userID, productID uuid.UUID) (*domain.WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.wishlists {
		if w.UserID == userID && w.ProductID == productID {
			out := w
			return &out, nil
		}
	}
	w := domain.WishlistItem{ID: uuid.New(), UserID: userID, ProductID: productID, AddedAt: time.Now()}
	f.wishlists[w.ID] = w
	return &w, nil
}

func (f *fakeStore) RemoveWishlistItem(ctx context.Context, userID, productID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, w := range f.wishlists {
		if w.UserID == userID && w.ProductID == productID {
			delete(f.wishlists, id)
		}
	}
	return nil
}

func (f *fakeStore) ListWishlist(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.WishlistItem
	for _, w := range f.wishlists {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

// InTx runs fn directly; the fake has no transactional isolation.
func (f *fakeStore) InTx(ctx context.Context, fn func(Store) error) error {
	return fn(f)
}
