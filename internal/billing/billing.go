// Package billing abstracts the payment gateway behind a Provider
// interface so services and tests never touch the Stripe SDK directly.
package billing

import "context"

// Provider defines the interface for hosted checkout payment processing.
type Provider interface {
	// CreateCheckoutSession creates a gateway-hosted checkout session.
	// The returned session URL is where the browser must be redirected.
	CreateCheckoutSession(ctx context.Context, params CreateCheckoutSessionParams) (*CheckoutSession, error)

	// GetCheckoutSession retrieves full session details, expanding line
	// items and customer information.
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)

	// VerifyWebhookSignature verifies that a webhook request is authentic.
	// Returns the parsed event on success.
	VerifyWebhookSignature(payload []byte, signature string, secret string) (*WebhookEvent, error)
}

// LineItem is one purchasable line of a checkout session. UnitAmountCents
// is the authoritative server-side price in minor currency units.
type LineItem struct {
	Name            string
	ImageURLs       []string
	UnitAmountCents int64
	Quantity        int64
}

// CreateCheckoutSessionParams contains parameters for creating a hosted
// checkout session.
type CreateCheckoutSessionParams struct {
	LineItems     []LineItem
	Currency      string
	SuccessURL    string
	CancelURL     string
	CustomerEmail string

	// Metadata is the only channel through which fulfillment later
	// recovers application context from an opaque gateway session.
	Metadata map[string]string

	// AllowedShippingCountries restricts where the gateway collects
	// shipping addresses for.
	AllowedShippingCountries []string
}

// Address is a gateway-collected postal address.
type Address struct {
	Line1      string
	Line2      string
	City       string
	State      string
	Country    string
	PostalCode string
}

// CheckoutSession is the provider-neutral view of a gateway session.
type CheckoutSession struct {
	ID               string
	URL              string
	PaymentIntentID  string
	PaymentStatus    string
	AmountTotalCents int64
	Currency         string
	CustomerEmail    string
	CustomerName     string
	Metadata         map[string]string
	ShippingName     string
	ShippingAddress  *Address
	BillingAddress   *Address
}

// WebhookEvent is a verified gateway event.
type WebhookEvent struct {
	ID   string
	Type string

	// SessionID is populated for checkout session events.
	SessionID string

	// Raw is the event's data payload for handlers that need more.
	Raw []byte
}

// Event types the webhook handler dispatches on.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventPaymentIntentFailed      = "payment_intent.payment_failed"
)
