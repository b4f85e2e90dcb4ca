package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, nil, nil), mr
}

func TestFetchCachesLoaderResult(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return map[string]int{"value": calls}, nil
	}

	var first map[string]int
	require.NoError(t, store.Fetch(ctx, ClassAreas, "all", "", &first, loader))
	assert.Equal(t, 1, first["value"])

	var second map[string]int
	require.NoError(t, store.Fetch(ctx, ClassAreas, "all", "", &second, loader))
	assert.Equal(t, 1, second["value"], "second read should come from cache")
	assert.Equal(t, 1, calls)
}

func TestFetchExpiresByTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	var got int
	require.NoError(t, store.Fetch(ctx, ClassProducts, "s1", "", &got, loader))
	assert.Equal(t, 1, got)

	mr.FastForward(ClassProducts.TTL + time.Second)

	require.NoError(t, store.Fetch(ctx, ClassProducts, "s1", "", &got, loader))
	assert.Equal(t, 2, got, "expired entry should be reloaded")
}

func TestInvalidateTagDiscardsBoundEntries(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	value := "before"
	loader := func(context.Context) (any, error) { return value, nil }

	var got string
	require.NoError(t, store.Fetch(ctx, ClassProducts, "s1:p0", "", &got, loader))
	require.Equal(t, "before", got)

	// Underlying data changes; cached page must become stale only after
	// invalidation, then refresh immediately.
	value = "after"
	require.NoError(t, store.Fetch(ctx, ClassProducts, "s1:p0", "", &got, loader))
	require.Equal(t, "before", got)

	require.NoError(t, store.InvalidateTag(ctx, TagProducts))

	require.NoError(t, store.Fetch(ctx, ClassProducts, "s1:p0", "", &got, loader))
	assert.Equal(t, "after", got)
}

func TestInvalidateTagLeavesOtherTagsAlone(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	var got int
	require.NoError(t, store.Fetch(ctx, ClassAreas, "all", "", &got, loader))
	require.NoError(t, store.InvalidateTag(ctx, TagProducts))
	require.NoError(t, store.Fetch(ctx, ClassAreas, "all", "", &got, loader))
	assert.Equal(t, 1, calls, "area entry is not bound to the products tag")
}

func TestInvalidatePath(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	var got int
	require.NoError(t, store.Fetch(ctx, ClassProducts, "s1:p0", "/api/stores/corner-shop/products", &got, loader))
	require.NoError(t, store.InvalidatePath(ctx, "/api/stores/corner-shop/products"))
	require.NoError(t, store.Fetch(ctx, ClassProducts, "s1:p0", "/api/stores/corner-shop/products", &got, loader))
	assert.Equal(t, 2, calls)
}

func TestFetchFallsThroughWhenCacheDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(client, nil, nil)
	mr.Close()

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return "live", nil
	}

	var got string
	require.NoError(t, store.Fetch(context.Background(), ClassStores, "all", "", &got, loader))
	assert.Equal(t, "live", got)
	assert.Equal(t, 1, calls)
}

func TestFetchPropagatesLoaderError(t *testing.T) {
	store, _ := newTestStore(t)

	loader := func(context.Context) (any, error) {
		return nil, assert.AnError
	}

	var got string
	err := store.Fetch(context.Background(), ClassStores, "all", "", &got, loader)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestValidTag(t *testing.T) {
	assert.True(t, ValidTag("products"))
	assert.True(t, ValidTag("store-areas_2"))
	assert.False(t, ValidTag(""))
	assert.False(t, ValidTag("Products"))
	assert.False(t, ValidTag("products;flushall"))
}
