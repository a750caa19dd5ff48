package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreUpsertMerges(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertProfile(ctx, "dev-1", Fields{"verified": true}))
	require.NoError(t, store.UpsertProfile(ctx, "dev-1", Fields{"shadow": false}))

	rec, err := store.GetProfile(ctx, "dev-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, true, rec.Fields["verified"])
	assert.Equal(t, false, rec.Fields["shadow"])
}

func TestInMemoryStoreUpsertIsIdempotent(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	for range 3 {
		require.NoError(t, store.UpsertProfile(ctx, "dev-1", Fields{"verified": true}))
	}
	rec, err := store.GetProfile(ctx, "dev-1")
	require.NoError(t, err)
	assert.Len(t, rec.Fields, 1)
}

func TestInMemoryStoreMissingProfile(t *testing.T) {
	rec, err := NewInMemoryStore().GetProfile(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestInMemoryStoreRequiresDeviceID(t *testing.T) {
	err := NewInMemoryStore().UpsertProfile(context.Background(), "", Fields{"a": 1})
	assert.Error(t, err)
}

func TestInMemoryStoreReturnsCopies(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertProfile(ctx, "dev-1", Fields{"verified": true}))

	rec, err := store.GetProfile(ctx, "dev-1")
	require.NoError(t, err)
	rec.Fields["verified"] = false

	again, err := store.GetProfile(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, true, again.Fields["verified"])
}
