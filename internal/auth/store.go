package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/filevault/pkg/cache"
)

// KeyPrefix namespaces session keys. The external login flow writes
// "auth_<token>" with the raw user id as the value, so this must not change.
const KeyPrefix = "auth_"

// Store persists token to user id bindings.
// Get returns cache.ErrNotFound for unknown or expired tokens.
type Store interface {
	Get(ctx context.Context, token string) (string, error)
	Set(ctx context.Context, token, userID string, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// NewRedisStore stores sessions in Redis as plain strings under KeyPrefix.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *cache.Redis[string] {
	return cache.NewRedis[string](client, cache.RawString{},
		cache.WithPrefix(KeyPrefix),
		cache.WithRedisDefaultTTL(ttl),
	)
}

// NewMemoryStore keeps sessions in process memory.
// Use it for local runs and tests; sessions do not survive restarts.
func NewMemoryStore(ttl time.Duration, maxEntries int) *cache.Memory[string] {
	return cache.NewMemory[string](
		cache.WithDefaultTTL(ttl),
		cache.WithMaxEntries(maxEntries),
	)
}
