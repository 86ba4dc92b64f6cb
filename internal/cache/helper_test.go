package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside_CachesFetchResult(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *string) func() error {
		return func() error {
			fetches++
			*dest = "from source"
			return nil
		}
	}

	var got string
	require.NoError(t, Aside(ctx, "k", &got, time.Minute, fetch(&got)))
	assert.Equal(t, "from source", got)
	assert.Equal(t, 1, fetches)

	var again string
	require.NoError(t, Aside(ctx, "k", &again, time.Minute, fetch(&again)))
	assert.Equal(t, "from source", again)
	assert.Equal(t, 1, fetches, "second read must be served from cache")
}

func TestAside_WithoutClientFallsThrough(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	fetches := 0
	var got string
	fetch := func() error {
		fetches++
		got = "fresh"
		return nil
	}

	require.NoError(t, Aside(ctx, "k", &got, time.Minute, fetch))
	require.NoError(t, Aside(ctx, "k", &got, time.Minute, fetch))
	assert.Equal(t, 2, fetches)
}

func TestAside_BrokenCacheDegradesToFetch(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	// A value the JSON decoder cannot handle forces the source path.
	mr.Set("k", "{not json")

	var got string
	err := Aside(ctx, "k", &got, time.Minute, func() error {
		got = "from source"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "from source", got)
}

func TestGetJSON_Miss(t *testing.T) {
	setupMiniredis(t)

	var dest string
	found, err := GetJSON(context.Background(), "missing", &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetJSON_RoundTrip(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}
	require.NoError(t, SetJSON(ctx, "p", payload{Name: "alice"}, time.Minute))

	var got payload
	found, err := GetJSON(ctx, "p", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alice", got.Name)
}

func TestInvalidateViews(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, FeedKey(7), []int{1}, time.Minute))
	require.NoError(t, SetJSON(ctx, TimelineKey(7), []int{1}, time.Minute))
	require.NoError(t, SetJSON(ctx, FeedKey(8), []int{1}, time.Minute))

	InvalidateViews(ctx, 7)

	assert.False(t, mr.Exists(FeedKey(7)))
	assert.False(t, mr.Exists(TimelineKey(7)))
	assert.True(t, mr.Exists(FeedKey(8)), "other users' views stay cached")
}

func TestInitRedis_UnreachableServerDegrades(t *testing.T) {
	t.Cleanup(func() { SetClient(nil) })

	InitRedis("127.0.0.1:1")
	assert.Nil(t, GetClient())
}
