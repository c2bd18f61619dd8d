// Package cookie centralizes the storefront's cookie contract. Both
// identity cookies are HTTP-only, SameSite=Strict, path /, and secure in
// production.
package cookie

import (
	"net/http"
	"time"
)

const (
	// GuestName carries the anonymous guest session token.
	GuestName = "guest_session"

	// SessionName carries the authenticated session token.
	SessionName = "session"
)

// Config holds cookie security settings.
type Config struct {
	// Secure requires HTTPS. True in production, false in development.
	Secure bool
}

// Get reads a cookie value, returning "" when absent.
func Get(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// Set writes an identity cookie that expires ttl from now.
func (c *Config) Set(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear removes a cookie.
func (c *Config) Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
