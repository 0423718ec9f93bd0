package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisFixture(t *testing.T) *RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRedisCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c := newRedisFixture(t)

	require.NoError(t, c.Set(ctx, "session:u1:t1", []byte("active"), time.Minute))

	val, err := c.Get(ctx, "session:u1:t1")
	require.NoError(t, err)
	assert.Equal(t, []byte("active"), val)

	ok, err := c.Exists(ctx, "session:u1:t1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisCacheMiss(t *testing.T) {
	c := newRedisFixture(t)

	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	ok, err := c.Exists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := newRedisFixture(t)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCacheClearPattern(t *testing.T) {
	ctx := context.Background()
	c := newRedisFixture(t)

	require.NoError(t, c.Set(ctx, SessionKey("u1", "t1"), []byte("active"), time.Minute))
	require.NoError(t, c.Set(ctx, SessionKey("u1", "t2"), []byte("active"), time.Minute))
	require.NoError(t, c.Set(ctx, SessionKey("u2", "t1"), []byte("active"), time.Minute))

	require.NoError(t, c.Clear(ctx, SessionPattern("u1")))

	ok, err := c.Exists(ctx, SessionKey("u1", "t1"))
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = c.Exists(ctx, SessionKey("u1", "t2"))
	require.NoError(t, err)
	assert.False(t, ok)

	// The other user's session is untouched.
	ok, err = c.Exists(ctx, SessionKey("u2", "t1"))
	require.NoError(t, err)
	assert.True(t, ok)
}
