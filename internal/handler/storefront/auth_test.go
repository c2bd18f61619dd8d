package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solesphere/storefront/internal/cookie"
	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/service"
)

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSignUpSetsSessionAndClearsGuest(t *testing.T) {
	guest := &domain.Guest{ID: uuid.New(), SessionToken: "guest-tok"}

	var gotParams service.SignUpParams
	auth := &mockAuthService{
		signUpFunc: func(ctx context.Context, params service.SignUpParams) (*domain.User, *domain.Session, error) {
			gotParams = params
			return &domain.User{ID: uuid.New(), Email: params.Email, Name: params.Name},
				&domain.Session{Token: "sess-tok"}, nil
		},
	}
	guests := &mockGuestService{
		getByTokenFunc: func(ctx context.Context, token string) (*domain.Guest, error) {
			if token == "guest-tok" {
				return guest, nil
			}
			return nil, nil
		},
	}

	h := NewAuthHandler(auth, guests, &cookie.Config{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sign-up",
		strings.NewReader(`{"email":"new@example.com","name":"New Shopper","password":"hunter2hunter2"}`))
	req.AddCookie(&http.Cookie{Name: cookie.GuestName, Value: "guest-tok"})
	h.SignUp(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, gotParams.GuestID)
	assert.Equal(t, guest.ID, *gotParams.GuestID)

	cookies := rec.Result().Cookies()
	sess := cookieByName(cookies, cookie.SessionName)
	require.NotNil(t, sess)
	assert.Equal(t, "sess-tok", sess.Value)

	cleared := cookieByName(cookies, cookie.GuestName)
	require.NotNil(t, cleared, "guest cookie should be cleared after merge")
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestSignInWithoutGuest(t *testing.T) {
	var gotParams service.SignInParams
	auth := &mockAuthService{
		signInFunc: func(ctx context.Context, params service.SignInParams) (*domain.User, *domain.Session, error) {
			gotParams = params
			return &domain.User{ID: uuid.New(), Email: params.Email},
				&domain.Session{Token: "sess-tok"}, nil
		},
	}

	h := NewAuthHandler(auth, &mockGuestService{}, &cookie.Config{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sign-in",
		strings.NewReader(`{"email":"shopper@example.com","password":"hunter2hunter2"}`))
	h.SignIn(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotParams.GuestID)

	cookies := rec.Result().Cookies()
	require.NotNil(t, cookieByName(cookies, cookie.SessionName))
	assert.Nil(t, cookieByName(cookies, cookie.GuestName), "no guest cookie to clear")
}

func TestSignInBadCredentials(t *testing.T) {
	auth := &mockAuthService{
		signInFunc: func(ctx context.Context, params service.SignInParams) (*domain.User, *domain.Session, error) {
			return nil, nil, service.ErrInvalidCredentials
		},
	}

	h := NewAuthHandler(auth, &mockGuestService{}, &cookie.Config{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sign-in",
		strings.NewReader(`{"email":"shopper@example.com","password":"wrong"}`))
	h.SignIn(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestSignUpValidationFailure(t *testing.T) {
	auth := &mockAuthService{
		signUpFunc: func(ctx context.Context, params service.SignUpParams) (*domain.User, *domain.Session, error) {
			return nil, nil, &domain.ValidationError{
				Op:     "SignUp",
				Fields: map[string]string{"password": "Must be at least 8 characters"},
			}
		},
	}

	h := NewAuthHandler(auth, &mockGuestService{}, &cookie.Config{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sign-up",
		strings.NewReader(`{"email":"new@example.com","name":"New","password":"short"}`))
	h.SignUp(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "password")
}

func TestSignOut(t *testing.T) {
	var signedOut string
	auth := &mockAuthService{
		signOutFunc: func(ctx context.Context, token string) error {
			signedOut = token
			return nil
		},
	}

	h := NewAuthHandler(auth, &mockGuestService{}, &cookie.Config{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sign-out", nil)
	req.AddCookie(&http.Cookie{Name: cookie.SessionName, Value: "sess-tok"})
	h.SignOut(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "sess-tok", signedOut)

	cleared := cookieByName(rec.Result().Cookies(), cookie.SessionName)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}
