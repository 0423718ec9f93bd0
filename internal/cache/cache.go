package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is not present
var ErrCacheMiss = errors.New("cache miss")

// Cache is the shared key-value store used for revocable session records
// and password-reset tokens.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context, pattern string) error
}

// SessionKey builds the key under which an active session is recorded
func SessionKey(uid, tokenID string) string {
	return "session:" + uid + ":" + tokenID
}

// SessionPattern matches every session key of one user, for bulk revocation
func SessionPattern(uid string) string {
	return "session:" + uid + ":*"
}

// ResetKey builds the key holding an outstanding password-reset token
func ResetKey(token string) string {
	return "reset:" + token
}
