package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/solesphere/storefront/internal/billing"
	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/postgres"
)

// errFulfillmentRaced signals that a concurrent request inserted the order
// first. The transaction rolls back and the caller fetches the winner's row.
var errFulfillmentRaced = errors.New("fulfillment raced")

// FulfillmentService converts a completed gateway payment into exactly one
// persisted order. It is triggered from two racing paths, the webhook and
// the success page, and must be safe to call any number of times per
// session id.
type FulfillmentService interface {
	FulfillOrder(ctx context.Context, sessionID string) (*domain.OrderDetail, error)
}

type fulfillmentService struct {
	store    Store
	provider billing.Provider
	logger   *slog.Logger
}

// NewFulfillmentService creates a new FulfillmentService instance
func NewFulfillmentService(store Store, provider billing.Provider, logger *slog.Logger) FulfillmentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &fulfillmentService{
		store:    store,
		provider: provider,
		logger:   logger,
	}
}

// FulfillOrder reconciles a gateway checkout session into an order.
//
// Lookup by session id, then by payment intent id, short-circuits the
// common case where the other path already fulfilled. Otherwise the order,
// its items, the synthesized addresses, and the cart clear all commit in
// one transaction; the unique indexes on the two external ids turn a race
// into a unique violation, which is handled by fetching the winner's order.
func (s *fulfillmentService) FulfillOrder(ctx context.Context, sessionID string) (*domain.OrderDetail, error) {
	order, err := s.store.GetOrderByStripeSessionID(ctx, sessionID)
	if err == nil {
		return s.detail(ctx, order)
	}
	if !postgres.IsNotFound(err) {
		return nil, fmt.Errorf("failed to look up order by session id: %w", err)
	}

	sess, err := s.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	if sess.PaymentIntentID != "" {
		order, err = s.store.GetOrderByStripePaymentIntentID(ctx, sess.PaymentIntentID)
		if err == nil {
			return s.detail(ctx, order)
		}
		if !postgres.IsNotFound(err) {
			return nil, fmt.Errorf("failed to look up order by payment intent: %w", err)
		}
	}

	detail, err := s.createOrder(ctx, sess)
	if errors.Is(err, errFulfillmentRaced) {
		s.logger.Info("fulfillment raced, returning existing order", "session_id", sessionID)
		return s.findExisting(ctx, sess)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("order fulfilled",
		"order_id", detail.Order.ID,
		"session_id", sessionID,
		"total_cents", detail.Order.TotalAmountCents,
	)
	return detail, nil
}

// createOrder performs the first-fulfillment write path in one transaction.
func (s *fulfillmentService) createOrder(ctx context.Context, sess *billing.CheckoutSession) (*domain.OrderDetail, error) {
	cartIDRaw, ok := sess.Metadata["cart_id"]
	if !ok || cartIDRaw == "" {
		return nil, ErrMissingCartMetadata
	}
	cartID, err := uuid.Parse(cartIDRaw)
	if err != nil {
		return nil, ErrMissingCartMetadata
	}

	var detail *domain.OrderDetail
	err = s.store.InTx(ctx, func(tx Store) error {
		user, err := s.resolveUser(ctx, tx, sess)
		if err != nil {
			return err
		}

		shippingID, billingID, err := s.resolveAddresses(ctx, tx, user.ID, sess)
		if err != nil {
			return err
		}

		if _, err := tx.GetCartByID(ctx, cartID); err != nil {
			if postgres.IsNotFound(err) {
				return ErrCartNotFound
			}
			return fmt.Errorf("failed to get cart: %w", err)
		}
		items, err := tx.GetCartItems(ctx, cartID)
		if err != nil {
			return fmt.Errorf("failed to get cart items: %w", err)
		}

		order, err := tx.CreateOrder(ctx, postgres.CreateOrderParams{
			UserID:                user.ID,
			Status:                domain.OrderStatusPaid,
			TotalAmountCents:      sess.AmountTotalCents,
			ShippingAddressID:     shippingID,
			BillingAddressID:      billingID,
			StripeSessionID:       sess.ID,
			StripePaymentIntentID: sess.PaymentIntentID,
		})
		if err != nil {
			if postgres.IsUniqueViolation(err) {
				return errFulfillmentRaced
			}
			return fmt.Errorf("failed to create order: %w", err)
		}

		orderItems := make([]domain.OrderItem, 0, len(items))
		for _, item := range items {
			variant, err := tx.GetVariantByID(ctx, item.ProductVariantID)
			if err != nil {
				return fmt.Errorf("failed to get variant for order item: %w", err)
			}
			// Snapshot the current price; later catalog changes never
			// touch this row.
			created, err := tx.CreateOrderItem(ctx, order.ID, item.ProductVariantID, item.Quantity, variant.PriceCents)
			if err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
			orderItems = append(orderItems, *created)
		}

		if err := tx.ClearCartItems(ctx, cartID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		detail = &domain.OrderDetail{Order: *order, Items: orderItems}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// resolveUser loads the user named in the session metadata, or for a guest
// checkout finds or creates an account from the gateway-collected email.
func (s *fulfillmentService) resolveUser(ctx context.Context, tx Store, sess *billing.CheckoutSession) (*domain.User, error) {
	if raw, ok := sess.Metadata["user_id"]; ok && raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid user_id in session metadata: %w", err)
		}
		user, err := tx.GetUserByID(ctx, userID)
		if err != nil {
			if postgres.IsNotFound(err) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		return user, nil
	}

	if sess.CustomerEmail == "" {
		return nil, ErrMissingCustomerEmail
	}
	user, err := tx.FindOrCreateUserByEmail(ctx, sess.CustomerEmail, sess.CustomerName)
	if err != nil {
		return nil, fmt.Errorf("failed to find or create user: %w", err)
	}
	return user, nil
}

// resolveAddresses synthesizes address rows from the gateway-supplied
// shipping and billing details. Billing falls back to shipping when the
// gateway collected only one; the user's stored defaults are a fallback
// only when the gateway supplied nothing.
func (s *fulfillmentService) resolveAddresses(ctx context.Context, tx Store, userID uuid.UUID, sess *billing.CheckoutSession) (shippingID, billingID uuid.UUID, err error) {
	shipping := sess.ShippingAddress
	if shipping == nil {
		shipping = sess.BillingAddress
	}

	if shipping != nil {
		addr, err := tx.CreateAddress(ctx, gatewayAddress(userID, domain.AddressTypeShipping, shipping))
		if err != nil {
			return uuid.Nil, uuid.Nil, fmt.Errorf("failed to create shipping address: %w", err)
		}
		shippingID = addr.ID
	} else {
		addr, err := tx.GetDefaultAddress(ctx, userID, domain.AddressTypeShipping)
		if err != nil {
			if postgres.IsNotFound(err) {
				return uuid.Nil, uuid.Nil, fmt.Errorf("no shipping address available for order")
			}
			return uuid.Nil, uuid.Nil, fmt.Errorf("failed to get default shipping address: %w", err)
		}
		shippingID = addr.ID
	}

	if sess.BillingAddress != nil && sess.ShippingAddress != nil {
		addr, err := tx.CreateAddress(ctx, gatewayAddress(userID, domain.AddressTypeBilling, sess.BillingAddress))
		if err != nil {
			return uuid.Nil, uuid.Nil, fmt.Errorf("failed to create billing address: %w", err)
		}
		billingID = addr.ID
	} else {
		billingID = shippingID
	}

	return shippingID, billingID, nil
}

// findExisting returns the order a racing fulfillment created.
func (s *fulfillmentService) findExisting(ctx context.Context, sess *billing.CheckoutSession) (*domain.OrderDetail, error) {
	order, err := s.store.GetOrderByStripeSessionID(ctx, sess.ID)
	if err == nil {
		return s.detail(ctx, order)
	}
	if !postgres.IsNotFound(err) {
		return nil, fmt.Errorf("failed to look up order by session id: %w", err)
	}

	if sess.PaymentIntentID != "" {
		order, err = s.store.GetOrderByStripePaymentIntentID(ctx, sess.PaymentIntentID)
		if err == nil {
			return s.detail(ctx, order)
		}
		if !postgres.IsNotFound(err) {
			return nil, fmt.Errorf("failed to look up order by payment intent: %w", err)
		}
	}

	return nil, ErrOrderNotFound
}

func (s *fulfillmentService) detail(ctx context.Context, order *domain.Order) (*domain.OrderDetail, error) {
	items, err := s.store.GetOrderItems(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	return &domain.OrderDetail{Order: *order, Items: items}, nil
}

func gatewayAddress(userID uuid.UUID, addrType domain.AddressType, a *billing.Address) domain.Address {
	return domain.Address{
		UserID:     userID,
		Type:       addrType,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		Country:    a.Country,
		PostalCode: a.PostalCode,
	}
}
