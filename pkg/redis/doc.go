// Package redis opens the go-redis client backing the session cache.
//
// [Open] validates the URL scheme (redis:// or rediss://), applies the pool
// settings from [Config] and retries the initial ping with linear backoff so a
// container that starts before Redis does not crash-loop.
//
//	client, err := redis.Open(ctx, cfg.Redis)
//	if err != nil {
//		return err
//	}
//	app := web.New(web.WithHealthChecks(web.WithReadinessCheck("redis", redis.Healthcheck(client))))
//	defer redis.Shutdown(client)(ctx)
package redis
