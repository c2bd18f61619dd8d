package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeConfig contains configuration for the Stripe provider.
type StripeConfig struct {
	APIKey        string
	WebhookSecret string
}

// IsTestMode reports whether the configured key is a Stripe test key.
func (c StripeConfig) IsTestMode() bool {
	return strings.HasPrefix(c.APIKey, "sk_test_")
}

// StripeProvider implements Provider using the Stripe SDK.
type StripeProvider struct {
	api    *client.API
	config StripeConfig
}

// Compile-time check that StripeProvider implements Provider.
var _ Provider = (*StripeProvider)(nil)

// NewStripeProvider creates a Stripe billing provider.
func NewStripeProvider(config StripeConfig) (*StripeProvider, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, fmt.Errorf("stripe: api key is required")
	}

	return &StripeProvider{
		api:    client.New(config.APIKey, nil),
		config: config,
	}, nil
}

// CreateCheckoutSession creates a Stripe-hosted checkout session.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, params CreateCheckoutSessionParams) (*CheckoutSession, error) {
	currency := strings.ToLower(params.Currency)
	if currency == "" {
		currency = "usd"
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(params.LineItems))
	for _, item := range params.LineItems {
		line := &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(item.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(item.UnitAmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
		}
		if len(item.ImageURLs) > 0 {
			line.PriceData.ProductData.Images = stripe.StringSlice(item.ImageURLs)
		}
		lineItems = append(lineItems, line)
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		LineItems:                lineItems,
		SuccessURL:               stripe.String(params.SuccessURL),
		CancelURL:                stripe.String(params.CancelURL),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
	}
	sessionParams.Context = ctx

	if len(params.AllowedShippingCountries) > 0 {
		sessionParams.ShippingAddressCollection = &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(params.AllowedShippingCountries),
		}
	}
	if params.CustomerEmail != "" {
		sessionParams.CustomerEmail = stripe.String(params.CustomerEmail)
	}
	if len(params.Metadata) > 0 {
		sessionParams.Metadata = make(map[string]string, len(params.Metadata))
		for k, v := range params.Metadata {
			sessionParams.Metadata[k] = v
		}
	}

	sess, err := p.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	return convertSession(sess), nil
}

// GetCheckoutSession retrieves a session with line items and customer
// details expanded.
func (p *StripeProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	getParams := &stripe.CheckoutSessionParams{}
	getParams.Context = ctx
	getParams.AddExpand("line_items")
	getParams.AddExpand("customer")
	getParams.AddExpand("payment_intent")

	sess, err := p.api.CheckoutSessions.Get(sessionID, getParams)
	if err != nil {
		return nil, fmt.Errorf("stripe: get checkout session %s: %w", sessionID, err)
	}

	return convertSession(sess), nil
}

// VerifyWebhookSignature verifies the Stripe-Signature header against the
// endpoint's signing secret and parses the event.
func (p *StripeProvider) VerifyWebhookSignature(payload []byte, signature string, secret string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, secret)
	if err != nil {
		return nil, fmt.Errorf("stripe: webhook signature verification failed: %w", err)
	}

	out := &WebhookEvent{
		ID:   event.ID,
		Type: string(event.Type),
		Raw:  event.Data.Raw,
	}

	// Checkout session events carry the session object; its id is all the
	// fulfillment path needs.
	if strings.HasPrefix(out.Type, "checkout.session.") {
		var obj struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &obj); err != nil {
			return nil, fmt.Errorf("stripe: failed to parse event object: %w", err)
		}
		out.SessionID = obj.ID
	}

	return out, nil
}

// convertSession maps a Stripe session onto the provider-neutral type.
func convertSession(sess *stripe.CheckoutSession) *CheckoutSession {
	out := &CheckoutSession{
		ID:               sess.ID,
		URL:              sess.URL,
		PaymentStatus:    string(sess.PaymentStatus),
		AmountTotalCents: sess.AmountTotal,
		Currency:         string(sess.Currency),
		Metadata:         sess.Metadata,
	}

	if sess.PaymentIntent != nil {
		out.PaymentIntentID = sess.PaymentIntent.ID
	}
	if sess.CustomerDetails != nil {
		out.CustomerEmail = sess.CustomerDetails.Email
		out.CustomerName = sess.CustomerDetails.Name
		out.BillingAddress = convertAddress(sess.CustomerDetails.Address)
	}
	if sess.CollectedInformation != nil && sess.CollectedInformation.ShippingDetails != nil {
		out.ShippingName = sess.CollectedInformation.ShippingDetails.Name
		out.ShippingAddress = convertAddress(sess.CollectedInformation.ShippingDetails.Address)
	}

	return out
}

func convertAddress(addr *stripe.Address) *Address {
	if addr == nil {
		return nil
	}
	return &Address{
		Line1:      addr.Line1,
		Line2:      addr.Line2,
		City:       addr.City,
		State:      addr.State,
		Country:    addr.Country,
		PostalCode: addr.PostalCode,
	}
}
