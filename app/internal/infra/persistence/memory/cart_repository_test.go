package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domcart "example.com/storefront/app/internal/domain/cart"
)

func TestCartRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository()

	_, err := repo.Get(ctx, "cart:a")
	require.ErrorIs(t, err, domcart.ErrSnapshotNotFound)

	value := []byte(`[{"id":"1","sku":"17","quantity":1}]`)
	require.NoError(t, repo.Set(ctx, "cart:a", value))

	got, err := repo.Get(ctx, "cart:a")
	require.NoError(t, err)
	assert.Equal(t, value, got)

	value[0] = 'x'
	got[1] = 'y'
	again, err := repo.Get(ctx, "cart:a")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1","sku":"17","quantity":1}]`, string(again))

	require.NoError(t, repo.Set(ctx, "cart:a", []byte(`[]`)))
	got, err = repo.Get(ctx, "cart:a")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	_, err = repo.Get(ctx, "cart:b")
	require.ErrorIs(t, err, domcart.ErrSnapshotNotFound)
}
