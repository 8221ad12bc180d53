package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func setupCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetClient(c)
	t.Cleanup(func() {
		SetClient(nil)
		_ = c.Close()
	})
	return mr
}

func TestGetSetJSON(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	var missing cachedUser
	found, err := GetJSON(ctx, UserKey(1), &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, UserKey(1), cachedUser{ID: 1, Username: "carmen"}, UserTTL))

	var got cachedUser
	found, err = GetJSON(ctx, UserKey(1), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "carmen", got.Username)
}

func TestSetJSON_TTL(t *testing.T) {
	mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, MessageKey(5), cachedUser{ID: 5}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got cachedUser
	found, err := GetJSON(ctx, MessageKey(5), &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAside(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedUser) func() error {
		return func() error {
			fetches++
			*dest = cachedUser{ID: 9, Username: "dana"}
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, Aside(ctx, UserKey(9), &first, UserTTL, fetch(&first)))
	assert.Equal(t, "dana", first.Username)
	assert.Equal(t, 1, fetches)

	// Second read is served from the cache.
	var second cachedUser
	require.NoError(t, Aside(ctx, UserKey(9), &second, UserTTL, fetch(&second)))
	assert.Equal(t, "dana", second.Username)
	assert.Equal(t, 1, fetches)
}

func TestAside_FetchErrorNotCached(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	boom := errors.New("db down")
	var dest cachedUser
	err := Aside(ctx, UserKey(3), &dest, UserTTL, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	found, err := GetJSON(ctx, UserKey(3), &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(2), cachedUser{ID: 2}, UserTTL))
	InvalidateUser(ctx, 2)

	var got cachedUser
	found, err := GetJSON(ctx, UserKey(2), &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNilClientIsPassThrough(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(1), cachedUser{ID: 1}, UserTTL))

	var got cachedUser
	found, err := GetJSON(ctx, UserKey(1), &got)
	require.NoError(t, err)
	assert.False(t, found)

	// Aside always falls through to fetch.
	fetched := false
	require.NoError(t, Aside(ctx, UserKey(1), &got, UserTTL, func() error {
		fetched = true
		got.Username = "carmen"
		return nil
	}))
	assert.True(t, fetched)
	assert.Equal(t, "carmen", got.Username)

	Invalidate(ctx, UserKey(1))
}
