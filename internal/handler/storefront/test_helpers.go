package storefront

import (
	"context"

	"github.com/google/uuid"

	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/service"
)

// mockGuestService implements service.GuestService for testing
type mockGuestService struct {
	createFunc     func(ctx context.Context) (*domain.Guest, error)
	getByTokenFunc func(ctx context.Context, token string) (*domain.Guest, error)
}

func (m *mockGuestService) Create(ctx context.Context) (*domain.Guest, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx)
	}
	return &domain.Guest{ID: uuid.New(), SessionToken: "guest-token"}, nil
}

func (m *mockGuestService) GetByToken(ctx context.Context, token string) (*domain.Guest, error) {
	if m.getByTokenFunc != nil {
		return m.getByTokenFunc(ctx, token)
	}
	return nil, nil
}

// mockCartService implements service.CartService for testing
type mockCartService struct {
	getOrCreateForUserFunc  func(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	getOrCreateForGuestFunc func(ctx context.Context, guestID uuid.UUID) (*domain.Cart, error)
	addItemFunc             func(ctx context.Context, cartID, variantID uuid.UUID, quantity int32) (*domain.CartSummary, error)
	updateItemQuantityFunc  func(ctx context.Context, cartID, itemID uuid.UUID, quantity int32) (*domain.CartSummary, error)
	removeItemFunc          func(ctx context.Context, cartID, itemID uuid.UUID) (*domain.CartSummary, error)
	summaryFunc             func(ctx context.Context, cartID uuid.UUID) (*domain.CartSummary, error)
	clearFunc               func(ctx context.Context, cartID uuid.UUID) error
	mergeGuestCartFunc      func(ctx context.Context, guestID, userID uuid.UUID) error
}

func (m *mockCartService) GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	if m.getOrCreateForUserFunc != nil {
		return m.getOrCreateForUserFunc(ctx, userID)
	}
	return &domain.Cart{ID: uuid.New(), UserID: &userID}, nil
}

func (m *mockCartService) GetOrCreateForGuest(ctx context.Context, guestID uuid.UUID) (*domain.Cart, error) {
	if m.getOrCreateForGuestFunc != nil {
		return m.getOrCreateForGuestFunc(ctx, guestID)
	}
	return &domain.Cart{ID: uuid.New(), GuestID: &guestID}, nil
}

func (m *mockCartService) AddItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int32) (*domain.CartSummary, error) {
	if m.addItemFunc != nil {
		return m.addItemFunc(ctx, cartID, variantID, quantity)
	}
	return &domain.CartSummary{}, nil
}

func (m *mockCartService) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int32) (*domain.CartSummary, error) {
	if m.updateItemQuantityFunc != nil {
		return m.updateItemQuantityFunc(ctx, cartID, itemID, quantity)
	}
	return &domain.CartSummary{}, nil
}

func (m *mockCartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*domain.CartSummary, error) {
	if m.removeItemFunc != nil {
		return m.removeItemFunc(ctx, cartID, itemID)
	}
	return &domain.CartSummary{}, nil
}

func (m *mockCartService) Summary(ctx context.Context, cartID uuid.UUID) (*domain.CartSummary, error) {
	if m.summaryFunc != nil {
		return m.summaryFunc(ctx, cartID)
	}
	return &domain.CartSummary{}, nil
}

func (m *mockCartService) Clear(ctx context.Context, cartID uuid.UUID) error {
	if m.clearFunc != nil {
		return m.clearFunc(ctx, cartID)
	}
	return nil
}

func (m *mockCartService) MergeGuestCart(ctx context.Context, guestID, userID uuid.UUID) error {
	if m.mergeGuestCartFunc != nil {
		return m.mergeGuestCartFunc(ctx, guestID, userID)
	}
	return nil
}

// mockAuthService implements service.AuthService for testing
type mockAuthService struct {
	signUpFunc         func(ctx context.Context, params service.SignUpParams) (*domain.User, *domain.Session, error)
	signInFunc         func(ctx context.Context, params service.SignInParams) (*domain.User, *domain.Session, error)
	signOutFunc        func(ctx context.Context, token string) error
	getSessionUserFunc func(ctx context.Context, token string) (*domain.User, error)
}

func (m *mockAuthService) SignUp(ctx context.Context, params service.SignUpParams) (*domain.User, *domain.Session, error) {
	if m.signUpFunc != nil {
		return m.signUpFunc(ctx, params)
	}
	return &domain.User{ID: uuid.New(), Email: params.Email, Name: params.Name},
		&domain.Session{Token: "session-token"}, nil
}

func (m *mockAuthService) SignIn(ctx context.Context, params service.SignInParams) (*domain.User, *domain.Session, error) {
	if m.signInFunc != nil {
		return m.signInFunc(ctx, params)
	}
	return &domain.User{ID: uuid.New(), Email: params.Email},
		&domain.Session{Token: "session-token"}, nil
}

func (m *mockAuthService) SignOut(ctx context.Context, token string) error {
	if m.signOutFunc != nil {
		return m.signOutFunc(ctx, token)
	}
	return nil
}

func (m *mockAuthService) GetSessionUser(ctx context.Context, token string) (*domain.User, error) {
	if m.getSessionUserFunc != nil {
		return m.getSessionUserFunc(ctx, token)
	}
	return nil, nil
}

// mockCheckoutService implements service.CheckoutService for testing
type mockCheckoutService struct {
	createSessionFunc func(ctx context.Context, userID uuid.UUID, origin string) (string, error)
}

func (m *mockCheckoutService) CreateSession(ctx context.Context, userID uuid.UUID, origin string) (string, error) {
	if m.createSessionFunc != nil {
		return m.createSessionFunc(ctx, userID, origin)
	}
	return "https://checkout.stripe.com/pay/cs_test", nil
}

// mockFulfillmentService implements service.FulfillmentService for testing
type mockFulfillmentService struct {
	fulfillOrderFunc func(ctx context.Context, sessionID string) (*domain.OrderDetail, error)
}

func (m *mockFulfillmentService) FulfillOrder(ctx context.Context, sessionID string) (*domain.OrderDetail, error) {
	if m.fulfillOrderFunc != nil {
		return m.fulfillOrderFunc(ctx, sessionID)
	}
	return &domain.OrderDetail{Order: domain.Order{ID: uuid.New(), Status: domain.OrderStatusPaid}}, nil
}

// mockNotificationService implements service.NotificationService for testing
type mockNotificationService struct {
	sendOrderConfirmationFunc func(ctx context.Context, orderID uuid.UUID) error
}

func (m *mockNotificationService) SendOrderConfirmation(ctx context.Context, orderID uuid.UUID) error {
	if m.sendOrderConfirmationFunc != nil {
		return m.sendOrderConfirmationFunc(ctx, orderID)
	}
	return nil
}
