package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solesphere/storefront/internal/cookie"
	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/service"
)

type stubAuthService struct {
	users map[string]*domain.User
}

func (s *stubAuthService) SignUp(ctx context.Context, params service.SignUpParams) (*domain.User, *domain.Session, error) {
	return nil, nil, nil
}

func (s *stubAuthService) SignIn(ctx context.Context, params service.SignInParams) (*domain.User, *domain.Session, error) {
	return nil, nil, nil
}

func (s *stubAuthService) SignOut(ctx context.Context, token string) error {
	return nil
}

func (s *stubAuthService) GetSessionUser(ctx context.Context, token string) (*domain.User, error) {
	return s.users[token], nil
}

func TestWithUserResolvesSessionCookie(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "shopper@example.com"}
	auth := &stubAuthService{users: map[string]*domain.User{"valid-token": user}}

	var got *domain.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetUserFromContext(r.Context())
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: cookie.SessionName, Value: "valid-token"})
	WithUser(auth)(next).ServeHTTP(rec, req)

	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
}

func TestWithUserContinuesUnauthenticated(t *testing.T) {
	auth := &stubAuthService{users: map[string]*domain.User{}}

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, GetUserFromContext(r.Context()))
	})

	// No cookie at all, then a stale one.
	for _, withCookie := range []bool{false, true} {
		called = false
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		if withCookie {
			req.AddCookie(&http.Cookie{Name: cookie.SessionName, Value: "expired-token"})
		}
		WithUser(auth)(next).ServeHTTP(rec, req)

		assert.True(t, called, "request must continue without a user")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRequireAuthRedirects(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run unauthenticated")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/account/addresses", nil)
	RequireAuth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/sign-in?redirect_url=%2Faccount%2Faddresses", rec.Header().Get("Location"))
}

func TestRequireAuthPassesUserThrough(t *testing.T) {
	user := &domain.User{ID: uuid.New()}

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/account/addresses", nil)
	req = req.WithContext(context.WithValue(req.Context(), UserContextKey, user))
	RequireAuth(next).ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}
