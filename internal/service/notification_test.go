package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/solesphere/storefront/internal/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockEmailer records confirmation sends.
type mockEmailer struct {
	sent []email.OrderConfirmationEmail
	err  error
}

func (m *mockEmailer) SendOrderConfirmation(ctx context.Context, data email.OrderConfirmationEmail) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, data)
	return nil
}

func fulfillTestOrder(t *testing.T, fx *fulfillFixture) uuid.UUID {
	t.Helper()
	svc := NewFulfillmentService(fx.store, fx.provider(), nil)
	detail, err := svc.FulfillOrder(context.Background(), "cs_123")
	require.NoError(t, err)
	return detail.Order.ID
}

func TestSendOrderConfirmationOnce(t *testing.T) {
	fx := newFulfillFixture(t)
	orderID := fulfillTestOrder(t, fx)

	emailer := &mockEmailer{}
	svc := NewNotificationService(fx.store, emailer, nil)
	ctx := context.Background()

	require.NoError(t, svc.SendOrderConfirmation(ctx, orderID))
	require.Len(t, emailer.sent, 1)

	msg := emailer.sent[0]
	assert.Equal(t, fx.user.Email, msg.Email)
	assert.Equal(t, int64(17998), msg.TotalCents)
	require.Len(t, msg.Items, 1)
	assert.Equal(t, "Trail Runner", msg.Items[0].Name)
	assert.Equal(t, "123 Main St", msg.ShippingAddr.Line1)

	// Both fulfillment paths trigger notification; only the first sends.
	require.NoError(t, svc.SendOrderConfirmation(ctx, orderID))
	assert.Len(t, emailer.sent, 1)
}

func TestSendOrderConfirmationUnknownOrder(t *testing.T) {
	store := newFakeStore()
	svc := NewNotificationService(store, &mockEmailer{}, nil)

	err := svc.SendOrderConfirmation(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSendOrderConfirmationSendFailure(t *testing.T) {
	fx := newFulfillFixture(t)
	orderID := fulfillTestOrder(t, fx)

	emailer := &mockEmailer{err: assert.AnError}
	svc := NewNotificationService(fx.store, emailer, nil)

	err := svc.SendOrderConfirmation(context.Background(), orderID)
	assert.Error(t, err)

	// The claim stands even though the send failed, so the racing path
	// does not double-send.
	order, err := fx.store.GetOrderByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.True(t, order.ConfirmationEmailSent)
}

// Interface satisfaction for the production emailer.
var _ OrderEmailer = (*email.Service)(nil)
