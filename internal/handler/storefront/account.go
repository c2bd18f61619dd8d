package storefront

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/handler"
	"github.com/solesphere/storefront/internal/middleware"
	"github.com/solesphere/storefront/internal/service"
)

// AccountHandler handles signed-in account routes: the address book and
// order history lookups.
type AccountHandler struct {
	accountService service.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

type addressResponse struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	IsDefault  bool   `json:"is_default"`
}

func toAddressResponse(addr domain.Address) addressResponse {
	return addressResponse{
		ID:         addr.ID.String(),
		Type:       string(addr.Type),
		Line1:      addr.Line1,
		Line2:      addr.Line2,
		City:       addr.City,
		State:      addr.State,
		Country:    addr.Country,
		PostalCode: addr.PostalCode,
		IsDefault:  addr.IsDefault,
	}
}

// ListAddresses handles GET /account/addresses
func (h *AccountHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	addrs, err := h.accountService.ListAddresses(r.Context(), user.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	resp := []addressResponse{}
	for _, addr := range addrs {
		resp = append(resp, toAddressResponse(addr))
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"addresses": resp})
}

// CreateAddress handles POST /account/addresses
func (h *AccountHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var params service.CreateAddressParams
	if err := handler.DecodeJSON(r, &params); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	addr, err := h.accountService.CreateAddress(r.Context(), user.ID, params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, toAddressResponse(*addr))
}

// GetOrder handles GET /orders/{id}
func (h *AccountHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.NotFound("account.order", "order", r.PathValue("id")))
		return
	}

	detail, err := h.accountService.GetOrder(r.Context(), user.ID, orderID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, toOrderResponse(detail))
}
