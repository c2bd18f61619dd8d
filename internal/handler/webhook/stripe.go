// Package webhook handles inbound payment gateway events.
package webhook

import (
	"io"
	"net/http"

	"github.com/solesphere/storefront/internal/billing"
	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/handler"
	"github.com/solesphere/storefront/internal/middleware"
	"github.com/solesphere/storefront/internal/service"
)

// maxPayloadBytes caps webhook request bodies. Stripe events are well
// under this.
const maxPayloadBytes = 65536

// StripeHandler handles Stripe webhook events
type StripeHandler struct {
	provider            billing.Provider
	fulfillmentService  service.FulfillmentService
	notificationService service.NotificationService
	webhookSecret       string
}

// NewStripeHandler creates a new Stripe webhook handler
func NewStripeHandler(provider billing.Provider, fulfillmentService service.FulfillmentService, notificationService service.NotificationService, webhookSecret string) *StripeHandler {
	return &StripeHandler{
		provider:            provider,
		fulfillmentService:  fulfillmentService,
		notificationService: notificationService,
		webhookSecret:       webhookSecret,
	}
}

// HandleWebhook handles POST /webhooks/stripe.
//
// A non-2xx response makes Stripe retry the event, so signature and
// parse failures return 4xx (retrying will not help) while fulfillment
// failures return 5xx (retrying will).
func (h *StripeHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("webhook.stripe", "Error reading request body"))
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		handler.ErrorResponse(w, r, domain.Invalid("webhook.stripe", "Missing signature"))
		return
	}

	event, err := h.provider.VerifyWebhookSignature(payload, signature, h.webhookSecret)
	if err != nil {
		logger.Warn("webhook signature verification failed", "error", err)
		handler.ErrorResponse(w, r, domain.Invalid("webhook.stripe", "Invalid signature"))
		return
	}

	logger.Info("stripe webhook received", "event_id", event.ID, "event_type", event.Type)

	switch event.Type {
	case billing.EventCheckoutSessionCompleted:
		if err := h.handleCheckoutCompleted(w, r, event); err != nil {
			return
		}

	case billing.EventPaymentIntentFailed:
		// No order exists yet for a failed payment; nothing to roll back.
		logger.Info("payment failed", "event_id", event.ID)

	default:
		logger.Info("unhandled webhook event type", "event_type", event.Type)
	}

	handler.RespondJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// handleCheckoutCompleted fulfills the order for a completed checkout
// session. A non-nil return means the error response was already
// written.
func (h *StripeHandler) handleCheckoutCompleted(w http.ResponseWriter, r *http.Request, event *billing.WebhookEvent) error {
	logger := middleware.GetLogger(r.Context())

	if event.SessionID == "" {
		// Acknowledge rather than retry: the event will never gain a
		// session id.
		logger.Warn("checkout completion event without session id", "event_id", event.ID)
		return nil
	}

	detail, err := h.fulfillmentService.FulfillOrder(r.Context(), event.SessionID)
	if err != nil {
		logger.Error("fulfillment failed", "session_id", event.SessionID, "error", err)
		handler.ErrorResponse(w, r, domain.Internal(err, "webhook.stripe", "Order fulfillment failed"))
		return err
	}

	logger.Info("order fulfilled",
		"order_id", detail.Order.ID,
		"session_id", event.SessionID,
		"total_cents", detail.Order.TotalAmountCents)

	if err := h.notificationService.SendOrderConfirmation(r.Context(), detail.Order.ID); err != nil {
		// The order is safely recorded; do not make Stripe replay the
		// event over an email failure.
		logger.Error("order confirmation email failed", "order_id", detail.Order.ID, "error", err)
	}
	return nil
}
