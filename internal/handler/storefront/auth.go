package storefront

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/solesphere/storefront/internal/cookie"
	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/handler"
	"github.com/solesphere/storefront/internal/service"
)

// AuthHandler handles sign-up, sign-in, and sign-out routes
type AuthHandler struct {
	authService  service.AuthService
	guestService service.GuestService
	cookies      *cookie.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, guestService service.GuestService, cookies *cookie.Config) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		guestService: guestService,
		cookies:      cookies,
	}
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toUserResponse(user *domain.User) userResponse {
	return userResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
	}
}

// guestID resolves the guest cookie to a guest ID, nil when the shopper
// has no live guest session.
func (h *AuthHandler) guestID(r *http.Request) (*uuid.UUID, error) {
	guest, err := h.guestService.GetByToken(r.Context(), GetGuestTokenFromCookie(r))
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, nil
	}
	return &guest.ID, nil
}

// finishSession writes the session cookie and retires the guest cookie.
// By this point any guest cart has already merged into the user's cart.
func (h *AuthHandler) finishSession(w http.ResponseWriter, session *domain.Session, hadGuest bool) {
	h.cookies.Set(w, cookie.SessionName, session.Token, service.SessionTTL)
	if hadGuest {
		h.cookies.Clear(w, cookie.GuestName)
	}
}

// SignUp handles POST /sign-up
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	guestID, err := h.guestID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	user, session, err := h.authService.SignUp(r.Context(), service.SignUpParams{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		GuestID:  guestID,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.finishSession(w, session, guestID != nil)
	handler.RespondJSON(w, http.StatusCreated, toUserResponse(user))
}

// SignIn handles POST /sign-in
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	guestID, err := h.guestID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	user, session, err := h.authService.SignIn(r.Context(), service.SignInParams{
		Email:    req.Email,
		Password: req.Password,
		GuestID:  guestID,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.finishSession(w, session, guestID != nil)
	handler.RespondJSON(w, http.StatusOK, toUserResponse(user))
}

// SignOut handles POST /sign-out
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token := GetSessionTokenFromCookie(r)
	if token != "" {
		if err := h.authService.SignOut(r.Context(), token); err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
	}
	h.cookies.Clear(w, cookie.SessionName)
	w.WriteHeader(http.StatusNoContent)
}
