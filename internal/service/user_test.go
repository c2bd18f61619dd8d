package service

import (
	"context"
	"testing"

	"github.com/solesphere/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (*fakeStore, AuthService, CartService) {
	store := newFakeStore()
	carts := NewCartService(store)
	return store, NewAuthService(store, carts), carts
}

func TestSignUpAndSignIn(t *testing.T) {
	_, svc, _ := newAuthFixture()
	ctx := context.Background()

	user, session, err := svc.SignUp(ctx, SignUpParams{
		Email:    "Casey@Example.com",
		Name:     "Casey",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "casey@example.com", user.Email)
	assert.NotEmpty(t, session.Token)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	got, _, err := svc.SignIn(ctx, SignInParams{Email: "casey@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, _, err = svc.SignIn(ctx, SignInParams{Email: "casey@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUpValidation(t *testing.T) {
	_, svc, _ := newAuthFixture()
	ctx := context.Background()

	tests := []struct {
		name   string
		params SignUpParams
		field  string
	}{
		{"missing email", SignUpParams{Name: "Casey", Password: "long enough"}, "email"},
		{"bad email", SignUpParams{Email: "nope", Name: "Casey", Password: "long enough"}, "email"},
		{"short password", SignUpParams{Email: "a@b.com", Name: "Casey", Password: "short"}, "password"},
		{"missing name", SignUpParams{Email: "a@b.com", Password: "long enough"}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.SignUp(ctx, tt.params)
			require.Error(t, err)
			fields := domain.GetValidationFields(err)
			require.NotNil(t, fields, "expected a validation error, got %v", err)
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	_, svc, _ := newAuthFixture()
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, SignUpParams{Email: "a@b.com", Name: "A", Password: "long enough"})
	require.NoError(t, err)

	_, _, err = svc.SignUp(ctx, SignUpParams{Email: "a@b.com", Name: "B", Password: "long enough"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignInUnknownOrPasswordlessAccount(t *testing.T) {
	store, svc, _ := newAuthFixture()
	ctx := context.Background()

	_, _, err := svc.SignIn(ctx, SignInParams{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Accounts created during guest fulfillment carry no password hash
	// and cannot sign in with one.
	_, err = store.CreateUser(ctx, "gateway@example.com", "Gateway Shopper", "")
	require.NoError(t, err)
	_, _, err = svc.SignIn(ctx, SignInParams{Email: "gateway@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInMergesGuestCart(t *testing.T) {
	store, svc, carts := newAuthFixture()
	ctx := context.Background()

	user, _, err := svc.SignUp(ctx, SignUpParams{Email: "a@b.com", Name: "A", Password: "long enough"})
	require.NoError(t, err)

	variant := store.addVariant("A", 1000)
	guest := seedGuest(t, store)
	guestCart, err := carts.GetOrCreateForGuest(ctx, guest.ID)
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, guestCart.ID, variant.ID, 2)
	require.NoError(t, err)

	// The merge completes before SignIn returns.
	_, _, err = svc.SignIn(ctx, SignInParams{Email: "a@b.com", Password: "long enough", GuestID: &guest.ID})
	require.NoError(t, err)

	cart, err := store.GetCartByUserID(ctx, user.ID)
	require.NoError(t, err)
	summary, err := carts.Summary(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, int32(2), summary.Items[0].Quantity)

	_, err = store.GetGuestForUpdate(ctx, guest.ID)
	assert.Error(t, err)
}

func TestSessionLifecycle(t *testing.T) {
	_, svc, _ := newAuthFixture()
	ctx := context.Background()

	user, session, err := svc.SignUp(ctx, SignUpParams{Email: "a@b.com", Name: "A", Password: "long enough"})
	require.NoError(t, err)

	got, err := svc.GetSessionUser(ctx, session.Token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)

	require.NoError(t, svc.SignOut(ctx, session.Token))

	got, err = svc.GetSessionUser(ctx, session.Token)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Unknown and empty tokens resolve to "no user", not errors.
	got, err = svc.GetSessionUser(ctx, "bogus")
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = svc.GetSessionUser(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, got)
}
