// Package auth resolves opaque session tokens to user ids.
//
// Sessions are issued by an external login flow that writes the user id as
// a plain string under "auth_<token>" with a 24 hour TTL. [NewRedisStore]
// reads the same layout; [NewMemoryStore] is a process-local substitute.
//
//	authn := auth.NewAuthenticator(auth.NewRedisStore(client, 24*time.Hour))
//
//	r.GET("/files", h.list, auth.Require(authn))
//	r.GET("/files/{id}/data", h.content, auth.Optional(authn))
//
// The token is read from X-Token, falling back to Authorization: Bearer.
// Handlers read the caller with [UserID].
package auth
