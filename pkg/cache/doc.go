// Package cache provides a generic [Cache] with in-memory and Redis backends.
//
// [NewMemory] wraps an expirable LRU from hashicorp/golang-lru and suits
// single-process deployments and tests. [NewRedis] stores values in Redis
// through a [Marshaler]; JSON is the default and [RawString] keeps plain
// strings readable by other clients:
//
//	sessions := cache.NewRedis[string](client, cache.RawString{}, cache.WithPrefix("auth_"))
//	err := sessions.Set(ctx, token, userID, 24*time.Hour)
//	userID, err := sessions.Get(ctx, token)
//	if errors.Is(err, cache.ErrNotFound) {
//		// expired or never issued
//	}
//
// Backend failures from Redis are wrapped with [ErrUnavailable] so callers
// can tell a miss from an outage.
package cache
