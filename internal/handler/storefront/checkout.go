package storefront

import (
	"net/http"

	"github.com/solesphere/storefront/internal/handler"
	"github.com/solesphere/storefront/internal/middleware"
	"github.com/solesphere/storefront/internal/service"
)

// CheckoutHandler starts a hosted checkout session for the signed-in
// user's cart. The route sits behind RequireAuth, so an unauthenticated
// shopper is redirected to sign-in before this handler ever runs.
type CheckoutHandler struct {
	checkoutService service.CheckoutService

	// baseURL overrides the request-derived origin when set, for
	// deployments where the public URL differs from the Host header.
	baseURL string
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService service.CheckoutService, baseURL string) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		baseURL:         baseURL,
	}
}

// Start handles POST /checkout
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/sign-in?redirect_url=/cart", http.StatusSeeOther)
		return
	}

	origin := h.baseURL
	if origin == "" {
		origin = requestOrigin(r)
	}

	url, err := h.checkoutService.CreateSession(r.Context(), user.ID, origin)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]string{"url": url})
}
