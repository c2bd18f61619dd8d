package storefront

import (
	"net/http"

	"github.com/solesphere/storefront/internal/cookie"
)

// GetGuestTokenFromCookie retrieves the guest session token from the
// guest_session cookie. Returns empty string if the cookie is not present.
func GetGuestTokenFromCookie(r *http.Request) string {
	return cookie.Get(r, cookie.GuestName)
}

// GetSessionTokenFromCookie retrieves the authenticated session token
// from the session cookie. Returns empty string if the cookie is not present.
func GetSessionTokenFromCookie(r *http.Request) string {
	return cookie.Get(r, cookie.SessionName)
}
