package redis

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"dualshot/config"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewFromClient(rdb, time.Minute), mr
}

func TestNewConnectsWithConfig(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	c, err := New(context.Background(), config.RedisConfig{Host: mr.Host(), Port: port})
	require.NoError(t, err)
	defer c.Close()
	assert.NoError(t, c.HealthCheck(context.Background()))
}

func TestNewFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	port, _ := strconv.Atoi(mr.Port())
	mr.Close()

	_, err := New(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: port})
	assert.Error(t, err)
}

func TestPromptCache(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	_, ok, err := c.GetPrompt(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetPrompt(ctx, "Show your lunch"))
	v, ok, err := c.GetPrompt(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Show your lunch", v)
	assert.Equal(t, time.Minute, mr.TTL(PromptKey))

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.GetPrompt(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetPrompt(ctx, "again"))
	require.NoError(t, c.InvalidatePrompt(ctx))
	assert.False(t, mr.Exists(PromptKey))
}

func TestOfflineEventsOrdering(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	for _, p := range []string{"one", "two", "three"} {
		require.NoError(t, c.PushOffline(ctx, 5, []byte(p)))
	}
	n, err := c.OfflineCount(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, OfflineEventsTTL, mr.TTL(offlineKey(5)))

	items, err := c.PopOffline(ctx, 5)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "one", string(items[0]))
	assert.Equal(t, "three", string(items[2]))

	n, err = c.OfflineCount(ctx, 5)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOfflineEventsTrimmed(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < OfflineEventsMax+20; i++ {
		require.NoError(t, c.PushOffline(ctx, 9, []byte(fmt.Sprint(i))))
	}
	items, err := c.PopOffline(ctx, 9)
	require.NoError(t, err)
	require.Len(t, items, OfflineEventsMax)
	assert.Equal(t, "20", string(items[0]))
	assert.Equal(t, fmt.Sprint(OfflineEventsMax+19), string(items[len(items)-1]))
}

func TestNilClient(t *testing.T) {
	var c *Client
	ctx := context.Background()

	assert.ErrorIs(t, c.PushOffline(ctx, 1, nil), ErrNotInitialized)
	_, _, err := c.GetPrompt(ctx)
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.NoError(t, c.Close())
}
