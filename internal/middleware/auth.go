package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/solesphere/storefront/internal/cookie"
	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/service"
)

type contextKey string

// UserContextKey is the context key for storing the authenticated user
const UserContextKey contextKey = "user"

// WithUser resolves the session cookie to a user and adds it to the
// request context. It never rejects: requests without a valid session
// simply continue unauthenticated.
func WithUser(authService service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookie.Get(r, cookie.SessionName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.GetSessionUser(r.Context(), token)
			if err != nil || user == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth redirects unauthenticated requests to sign-in, carrying the
// original path as the return destination.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r.Context()) == nil {
			returnTo := r.URL.Path
			if r.URL.RawQuery != "" {
				returnTo += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, "/sign-in?redirect_url="+url.QueryEscape(returnTo), http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext retrieves the user from the request context.
// Returns nil if no user is authenticated.
func GetUserFromContext(ctx context.Context) *domain.User {
	user, ok := ctx.Value(UserContextKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
