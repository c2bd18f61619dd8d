package billing

import "context"

// MockProvider is a test double for Provider.
type MockProvider struct {
	CreateCheckoutSessionFunc  func(ctx context.Context, params CreateCheckoutSessionParams) (*CheckoutSession, error)
	GetCheckoutSessionFunc     func(ctx context.Context, sessionID string) (*CheckoutSession, error)
	VerifyWebhookSignatureFunc func(payload []byte, signature string, secret string) (*WebhookEvent, error)
}

var _ Provider = (*MockProvider)(nil)

func (m *MockProvider) CreateCheckoutSession(ctx context.Context, params CreateCheckoutSessionParams) (*CheckoutSession, error) {
	return m.CreateCheckoutSessionFunc(ctx, params)
}

func (m *MockProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	return m.GetCheckoutSessionFunc(ctx, sessionID)
}

func (m *MockProvider) VerifyWebhookSignature(payload []byte, signature string, secret string) (*WebhookEvent, error) {
	return m.VerifyWebhookSignatureFunc(payload, signature, secret)
}
