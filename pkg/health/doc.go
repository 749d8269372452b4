// Package health probes the service's dependencies.
//
// The same [Checks] map feeds three consumers:
//
//   - [ReadinessHandler] for orchestrator probes (503 when any check fails)
//   - [LivenessHandler], which only proves the process is serving
//   - [Run], used by GET /status to report per-dependency liveness
//
// Checks run concurrently under one timeout (default 5s):
//
//	checks := health.Checks{
//		"db":    repository.Healthcheck(pool),
//		"redis": redis.Healthcheck(client),
//	}
//	alive := health.Run(ctx, checks).Alive() // map[db:true redis:false]
//
// Handlers answer plain text by default and JSON when the request carries
// Accept: application/json or ?format=json.
package health
