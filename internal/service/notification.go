package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/email"
	"github.com/solesphere/storefront/internal/postgres"
)

// OrderEmailer renders and delivers order emails. *email.Service is the
// production implementation.
type OrderEmailer interface {
	SendOrderConfirmation(ctx context.Context, data email.OrderConfirmationEmail) error
}

// NotificationService sends the order confirmation email exactly once per
// order, no matter how many fulfillment paths trigger it.
type NotificationService interface {
	SendOrderConfirmation(ctx context.Context, orderID uuid.UUID) error
}

type notificationService struct {
	store   Store
	emailer OrderEmailer
	logger  *slog.Logger
}

// NewNotificationService creates a new NotificationService instance
func NewNotificationService(store Store, emailer OrderEmailer, logger *slog.Logger) NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &notificationService{
		store:   store,
		emailer: emailer,
		logger:  logger,
	}
}

// SendOrderConfirmation claims the order's confirmation_email_sent flag
// first, then sends. Flipping the flag is a single atomic update, so when
// the webhook and the success page both trigger notification only one of
// them observes a fresh flip and sends; the other no-ops.
func (s *notificationService) SendOrderConfirmation(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		if postgres.IsNotFound(err) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to get order: %w", err)
	}
	if order.ConfirmationEmailSent {
		return nil
	}

	claimed, err := s.store.MarkConfirmationEmailSent(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to mark confirmation email sent: %w", err)
	}
	if !claimed {
		return nil
	}

	data, err := s.buildConfirmation(ctx, order)
	if err != nil {
		return err
	}

	if err := s.emailer.SendOrderConfirmation(ctx, *data); err != nil {
		// The flag stays set: a half-delivered notification is preferable
		// to double-sending on the racing path.
		s.logger.Error("failed to send order confirmation",
			"order_id", orderID, "error", err)
		return fmt.Errorf("failed to send order confirmation: %w", err)
	}

	s.logger.Info("order confirmation sent", "order_id", orderID, "to", data.Email)
	return nil
}

func (s *notificationService) buildConfirmation(ctx context.Context, order *domain.Order) (*email.OrderConfirmationEmail, error) {
	user, err := s.store.GetUserByID(ctx, order.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order user: %w", err)
	}

	items, err := s.store.GetOrderItems(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}

	lines := make([]email.OrderLine, 0, len(items))
	for _, item := range items {
		name := "Item"
		if variant, err := s.store.GetVariantByID(ctx, item.ProductVariantID); err == nil {
			name = variant.ProductName
		}
		lines = append(lines, email.OrderLine{
			Name:          name,
			Quantity:      item.Quantity,
			UnitCents:     item.PriceAtPurchaseCents,
			SubtotalCents: item.PriceAtPurchaseCents * int64(item.Quantity),
		})
	}

	data := &email.OrderConfirmationEmail{
		Email:        user.Email,
		CustomerName: user.Name,
		OrderNumber:  orderNumber(order.ID),
		OrderDate:    order.CreatedAt,
		Items:        lines,
		TotalCents:   order.TotalAmountCents,
	}

	if addr, err := s.store.GetAddressByID(ctx, order.ShippingAddressID); err == nil {
		data.ShippingAddr = email.PostalAddress{
			Name:       user.Name,
			Line1:      addr.Line1,
			Line2:      addr.Line2,
			City:       addr.City,
			State:      addr.State,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
		}
	}

	return data, nil
}

// orderNumber is the short customer-facing form of an order id.
func orderNumber(id uuid.UUID) string {
	return id.String()[:8]
}
