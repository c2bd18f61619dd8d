package storefront

import (
	"net/http"
	"strings"

	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/handler"
	"github.com/solesphere/storefront/internal/middleware"
	"github.com/solesphere/storefront/internal/service"
)

// OrderConfirmationHandler completes checkout when the shopper lands on
// the success URL. It runs the same fulfillment path as the webhook, so
// whichever arrives first creates the order and the other finds it.
type OrderConfirmationHandler struct {
	fulfillmentService  service.FulfillmentService
	notificationService service.NotificationService
}

// NewOrderConfirmationHandler creates a new order confirmation handler
func NewOrderConfirmationHandler(fulfillmentService service.FulfillmentService, notificationService service.NotificationService) *OrderConfirmationHandler {
	return &OrderConfirmationHandler{
		fulfillmentService:  fulfillmentService,
		notificationService: notificationService,
	}
}

type orderItemResponse struct {
	VariantID            string `json:"variant_id"`
	Quantity             int32  `json:"quantity"`
	PriceAtPurchaseCents int64  `json:"price_at_purchase_cents"`
}

type orderResponse struct {
	ID               string              `json:"id"`
	Status           string              `json:"status"`
	TotalAmountCents int64               `json:"total_amount_cents"`
	Items            []orderItemResponse `json:"items"`
}

func toOrderResponse(detail *domain.OrderDetail) orderResponse {
	resp := orderResponse{
		ID:               detail.Order.ID.String(),
		Status:           string(detail.Order.Status),
		TotalAmountCents: detail.Order.TotalAmountCents,
		Items:            []orderItemResponse{},
	}
	for _, item := range detail.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			VariantID:            item.ProductVariantID.String(),
			Quantity:             item.Quantity,
			PriceAtPurchaseCents: item.PriceAtPurchaseCents,
		})
	}
	return resp
}

// Success handles GET /checkout/success
func (h *OrderConfirmationHandler) Success(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" || !strings.HasPrefix(sessionID, "cs_") {
		handler.ErrorResponse(w, r, domain.NotFound("checkout.success", "checkout session", sessionID))
		return
	}

	detail, err := h.fulfillmentService.FulfillOrder(r.Context(), sessionID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.notificationService.SendOrderConfirmation(r.Context(), detail.Order.ID); err != nil {
		// The order exists; a confirmation email hiccup should not
		// break the success page.
		middleware.GetLogger(r.Context()).Error("order confirmation email failed",
			"order_id", detail.Order.ID,
			"error", err)
	}

	handler.RespondJSON(w, http.StatusOK, toOrderResponse(detail))
}
