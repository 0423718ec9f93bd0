package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	val, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), -time.Second))

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheClearPattern(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	require.NoError(t, c.Set(ctx, SessionKey("u1", "t1"), []byte("a"), time.Minute))
	require.NoError(t, c.Set(ctx, SessionKey("u1", "t2"), []byte("a"), time.Minute))
	require.NoError(t, c.Set(ctx, SessionKey("u2", "t1"), []byte("a"), time.Minute))

	require.NoError(t, c.Clear(ctx, SessionPattern("u1")))

	ok, _ := c.Exists(ctx, SessionKey("u1", "t1"))
	assert.False(t, ok)
	ok, _ = c.Exists(ctx, SessionKey("u2", "t1"))
	assert.True(t, ok)
}

func TestSessionKeys(t *testing.T) {
	assert.Equal(t, "session:u1:t1", SessionKey("u1", "t1"))
	assert.Equal(t, "session:u1:*", SessionPattern("u1"))
	assert.Equal(t, "reset:tok", ResetKey("tok"))
}
