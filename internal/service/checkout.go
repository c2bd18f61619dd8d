package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/solesphere/storefront/internal/billing"
	"github.com/solesphere/storefront/internal/postgres"
)

// allowedShippingCountries restricts where the gateway collects shipping
// addresses for.
var allowedShippingCountries = []string{"US", "CA", "GB", "AU", "IN"}

// CheckoutService converts a user's cart into a gateway-hosted payment
// session.
type CheckoutService interface {
	// CreateSession builds one line item per cart line at the variant's
	// current price and returns the gateway URL to redirect the shopper
	// to. origin is the scheme+host of the current request, used for the
	// success/cancel URLs and to absolutize product image URLs.
	CreateSession(ctx context.Context, userID uuid.UUID, origin string) (string, error)
}

type checkoutService struct {
	store    Store
	provider billing.Provider
}

// NewCheckoutService creates a new CheckoutService instance
func NewCheckoutService(store Store, provider billing.Provider) CheckoutService {
	return &checkoutService{
		store:    store,
		provider: provider,
	}
}

func (s *checkoutService) CreateSession(ctx context.Context, userID uuid.UUID, origin string) (string, error) {
	cart, err := s.store.GetCartByUserID(ctx, userID)
	if err != nil {
		if postgres.IsNotFound(err) {
			return "", ErrCartEmpty
		}
		return "", fmt.Errorf("failed to get cart: %w", err)
	}

	lines, err := s.store.GetCartLines(ctx, cart.ID)
	if err != nil {
		return "", fmt.Errorf("failed to get cart lines: %w", err)
	}
	if len(lines) == 0 {
		return "", ErrCartEmpty
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if postgres.IsNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	// Prices come from the live catalog rows joined into the cart lines,
	// never from anything the client submitted.
	lineItems := make([]billing.LineItem, 0, len(lines))
	for _, line := range lines {
		lineItems = append(lineItems, billing.LineItem{
			Name:            line.ProductName,
			ImageURLs:       absolutizeURLs(origin, line.ImageURLs),
			UnitAmountCents: line.UnitPriceCents,
			Quantity:        int64(line.Quantity),
		})
	}

	session, err := s.provider.CreateCheckoutSession(ctx, billing.CreateCheckoutSessionParams{
		LineItems:     lineItems,
		Currency:      "usd",
		SuccessURL:    origin + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     origin + "/cart",
		CustomerEmail: user.Email,
		Metadata: map[string]string{
			"cart_id": cart.ID.String(),
			"user_id": userID.String(),
		},
		AllowedShippingCountries: allowedShippingCountries,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	if session.URL == "" {
		return "", ErrCheckoutSession
	}

	return session.URL, nil
}

// absolutizeURLs prefixes origin onto root-relative image paths so the
// gateway can fetch them.
func absolutizeURLs(origin string, urls []string) []string {
	if len(urls) == 0 {
		return nil
	}
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.HasPrefix(u, "/") {
			u = origin + u
		}
		out = append(out, u)
	}
	return out
}
