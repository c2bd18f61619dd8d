package storefront

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/handler"
	"github.com/solesphere/storefront/internal/middleware"
	"github.com/solesphere/storefront/internal/service"
)

// WishlistHandler handles wishlist routes. All routes require auth.
type WishlistHandler struct {
	wishlistService service.WishlistService
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlistService service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

type wishlistItemResponse struct {
	ProductID string `json:"product_id"`
	AddedAt   string `json:"added_at"`
}

// List handles GET /wishlist
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	items, err := h.wishlistService.List(r.Context(), user.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	resp := []wishlistItemResponse{}
	for _, item := range items {
		resp = append(resp, wishlistItemResponse{
			ProductID: item.ProductID.String(),
			AddedAt:   item.AddedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"items": resp})
}

// Add handles PUT /wishlist/{product_id}
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	productID, err := uuid.Parse(r.PathValue("product_id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("wishlist.add", "Invalid product id"))
		return
	}

	if _, err := h.wishlistService.Add(r.Context(), user.ID, productID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Remove handles DELETE /wishlist/{product_id}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	productID, err := uuid.Parse(r.PathValue("product_id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("wishlist.remove", "Invalid product id"))
		return
	}

	if err := h.wishlistService.Remove(r.Context(), user.ID, productID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
