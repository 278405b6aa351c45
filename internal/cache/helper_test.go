package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedThing struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// withMiniredis points the package client at a throwaway Redis and restores
// the uncached state afterwards.
func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	InitRedis(mr.Addr())
	require.NotNil(t, GetClient(), "miniredis should be reachable")
	t.Cleanup(func() { client = nil })
	return mr
}

func TestSetGetJSONRoundtrip(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	in := cachedThing{ID: 7, Name: "seven"}
	require.NoError(t, SetJSON(ctx, "thing:7", in, time.Minute))

	var out cachedThing
	found, err := GetJSON(ctx, "thing:7", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestGetJSONMiss(t *testing.T) {
	withMiniredis(t)

	var out cachedThing
	found, err := GetJSON(context.Background(), "thing:absent", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAsideFetchesOnceThenHits(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedThing) func() error {
		return func() error {
			fetches++
			*dest = cachedThing{ID: 1, Name: "fetched"}
			return nil
		}
	}

	var first cachedThing
	require.NoError(t, Aside(ctx, "thing:1", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "fetched", first.Name)

	var second cachedThing
	require.NoError(t, Aside(ctx, "thing:1", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, fetches, "second read must be served from cache")
	assert.Equal(t, first, second)
}

func TestAsidePropagatesFetchError(t *testing.T) {
	withMiniredis(t)

	wantErr := errors.New("db down")
	var out cachedThing
	err := Aside(context.Background(), "thing:2", &out, time.Minute, func() error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	// Failed fetches must not poison the cache.
	found, err := GetJSON(context.Background(), "thing:2", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidatePostDropsPostAndFeed(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PostKey(3), cachedThing{ID: 3}, time.Minute))
	require.NoError(t, SetJSON(ctx, FeedFirstPageKey, []cachedThing{{ID: 3}}, time.Minute))

	InvalidatePost(ctx, 3)

	var out cachedThing
	found, err := GetJSON(ctx, PostKey(3), &out)
	require.NoError(t, err)
	assert.False(t, found)

	var feed []cachedThing
	found, err = GetJSON(ctx, FeedFirstPageKey, &feed)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheDisabledIsNoOp(t *testing.T) {
	client = nil

	ctx := context.Background()
	require.NoError(t, SetJSON(ctx, "k", cachedThing{ID: 1}, time.Minute))

	var out cachedThing
	found, err := GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)

	// Aside degrades to a plain fetch.
	err = Aside(ctx, "k", &out, time.Minute, func() error {
		out = cachedThing{ID: 9}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint(9), out.ID)
}
