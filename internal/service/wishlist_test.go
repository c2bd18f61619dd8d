package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistAddRemoveList(t *testing.T) {
	store := newFakeStore()
	svc := NewWishlistService(store)
	ctx := context.Background()

	user := seedUser(t, store)
	variant := store.addVariant("A", 1000)

	item, err := svc.Add(ctx, user.ID, variant.ProductID)
	require.NoError(t, err)
	assert.Equal(t, variant.ProductID, item.ProductID)

	// Adding again is a no-op, not a duplicate.
	again, err := svc.Add(ctx, user.ID, variant.ProductID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, again.ID)

	items, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, svc.Remove(ctx, user.ID, variant.ProductID))
	items, err = svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWishlistAddUnknownProduct(t *testing.T) {
	store := newFakeStore()
	svc := NewWishlistService(store)

	user := seedUser(t, store)
	_, err := svc.Add(context.Background(), user.ID, uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}
