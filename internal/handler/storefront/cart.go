package storefront

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/solesphere/storefront/internal/cookie"
	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/handler"
	"github.com/solesphere/storefront/internal/middleware"
	"github.com/solesphere/storefront/internal/service"
)

// CartHandler handles all cart-related storefront routes
type CartHandler struct {
	guestService service.GuestService
	cartService  service.CartService
	cookies      *cookie.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(guestService service.GuestService, cartService service.CartService, cookies *cookie.Config) *CartHandler {
	return &CartHandler{
		guestService: guestService,
		cartService:  cartService,
		cookies:      cookies,
	}
}

type cartLineResponse struct {
	ID             string `json:"id"`
	VariantID      string `json:"variant_id"`
	Name           string `json:"name"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

type cartResponse struct {
	Items         []cartLineResponse `json:"items"`
	SubtotalCents int64              `json:"subtotal_cents"`
	ItemCount     int                `json:"item_count"`
}

func toCartResponse(summary *domain.CartSummary) cartResponse {
	resp := cartResponse{Items: []cartLineResponse{}}
	if summary == nil {
		return resp
	}
	for _, line := range summary.Items {
		resp.Items = append(resp.Items, cartLineResponse{
			ID:             line.ID.String(),
			VariantID:      line.ProductVariantID.String(),
			Name:           line.ProductName,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			SubtotalCents:  line.LineSubtotal,
		})
	}
	resp.SubtotalCents = summary.SubtotalCents
	resp.ItemCount = summary.ItemCount
	return resp
}

// resolveCart finds the cart for the current identity: the signed-in
// user when present, otherwise the guest from the guest_session cookie.
// With create set, a missing guest is minted and its cookie written
// before the cart is created; without it, no cart returns (nil, nil).
func (h *CartHandler) resolveCart(w http.ResponseWriter, r *http.Request, create bool) (*domain.Cart, error) {
	ctx := r.Context()

	if user := middleware.GetUserFromContext(ctx); user != nil {
		return h.cartService.GetOrCreateForUser(ctx, user.ID)
	}

	guest, err := h.guestService.GetByToken(ctx, GetGuestTokenFromCookie(r))
	if err != nil {
		return nil, err
	}
	if guest == nil {
		if !create {
			return nil, nil
		}
		guest, err = h.guestService.Create(ctx)
		if err != nil {
			return nil, err
		}
		h.cookies.Set(w, cookie.GuestName, guest.SessionToken, service.GuestTTL)
	}

	return h.cartService.GetOrCreateForGuest(ctx, guest.ID)
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	cart, err := h.resolveCart(w, r, false)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if cart == nil {
		handler.RespondJSON(w, http.StatusOK, toCartResponse(nil))
		return
	}

	summary, err := h.cartService.Summary(r.Context(), cart.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, toCartResponse(summary))
}

// Add handles POST /cart/items
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VariantID uuid.UUID `json:"variant_id"`
		Quantity  int32     `json:"quantity"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cart, err := h.resolveCart(w, r, true)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.cartService.AddItem(r.Context(), cart.ID, req.VariantID, req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, toCartResponse(summary))
}

// Update handles PATCH /cart/items/{id}
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("cart.update", "Invalid item id"))
		return
	}

	var req struct {
		Quantity int32 `json:"quantity"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cart, err := h.resolveCart(w, r, false)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if cart == nil {
		handler.ErrorResponse(w, r, service.ErrCartNotFound)
		return
	}

	summary, err := h.cartService.UpdateItemQuantity(r.Context(), cart.ID, itemID, req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, toCartResponse(summary))
}

// Remove handles DELETE /cart/items/{id}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("cart.remove", "Invalid item id"))
		return
	}

	cart, err := h.resolveCart(w, r, false)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if cart == nil {
		handler.ErrorResponse(w, r, service.ErrCartNotFound)
		return
	}

	summary, err := h.cartService.RemoveItem(r.Context(), cart.ID, itemID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, toCartResponse(summary))
}
