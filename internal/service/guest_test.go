package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestCreateAndGet(t *testing.T) {
	store := newFakeStore()
	svc := NewGuestService(store)
	ctx := context.Background()

	guest, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, guest.SessionToken)
	assert.True(t, guest.ExpiresAt.After(time.Now().Add(6*24*time.Hour)))

	got, err := svc.GetByToken(ctx, guest.SessionToken)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, guest.ID, got.ID)
}

func TestGuestGetByTokenNoGuest(t *testing.T) {
	store := newFakeStore()
	svc := NewGuestService(store)
	ctx := context.Background()

	// Empty and unknown tokens are both "no guest", not errors.
	got, err := svc.GetByToken(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = svc.GetByToken(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGuestExpiryBoundary(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &guestService{store: store, now: func() time.Time { return now }}

	tests := []struct {
		name      string
		expiresAt time.Time
		wantGuest bool
	}{
		{"expires after now", now.Add(time.Second), true},
		{"expires exactly now", now, false},
		{"expired in the past", now.Add(-time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guest, err := store.CreateGuest(ctx, "tok-"+tt.name, tt.expiresAt)
			require.NoError(t, err)

			got, err := svc.GetByToken(ctx, guest.SessionToken)
			require.NoError(t, err)
			if tt.wantGuest {
				require.NotNil(t, got)
				assert.Equal(t, guest.ID, got.ID)
			} else {
				assert.Nil(t, got)
			}

			// Expired guests are left in place for the merge path to
			// clean up.
			_, err = store.GetGuestByToken(ctx, guest.SessionToken)
			assert.NoError(t, err)
		})
	}
}
