package auth

import (
	"context"
	"errors"

	"github.com/dmitrymomot/filevault/internal/web"
	"github.com/dmitrymomot/filevault/pkg/logger"
)

// DefaultTokenHeader carries the session token.
const DefaultTokenHeader = "X-Token"

type (
	userIDKey struct{}
	tokenKey  struct{}
)

// Resolver resolves a session token to a user id.
type Resolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// MiddlewareOption configures Require and Optional.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	header string
}

// WithTokenHeader changes the header the token is read from.
// Authorization: Bearer is always accepted as a fallback.
func WithTokenHeader(name string) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		if name != "" {
			cfg.header = name
		}
	}
}

func newExtractor(opts []MiddlewareOption) web.Extractor {
	cfg := &middlewareConfig{header: DefaultTokenHeader}
	for _, opt := range opts {
		opt(cfg)
	}
	return web.NewExtractor(web.FromHeader(cfg.header), web.FromBearerToken())
}

// Require rejects requests without a valid session with ErrUnauthorized.
func Require(r Resolver, opts ...MiddlewareOption) web.Middleware {
	extractor := newExtractor(opts)

	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) error {
			token, _ := extractor.Extract(c)
			userID, err := r.Resolve(c.Context(), token)
			if err != nil {
				return err
			}

			c.Set(tokenKey{}, token)
			c.Set(userIDKey{}, userID)
			return next(c)
		}
	}
}

// Optional resolves the session when one is presented.
// Missing or invalid tokens continue anonymously; store failures still fail the request.
func Optional(r Resolver, opts ...MiddlewareOption) web.Middleware {
	extractor := newExtractor(opts)

	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) error {
			token, ok := extractor.Extract(c)
			if !ok {
				return next(c)
			}

			userID, err := r.Resolve(c.Context(), token)
			if errors.Is(err, ErrUnauthorized) {
				return next(c)
			}
			if err != nil {
				return err
			}

			c.Set(tokenKey{}, token)
			c.Set(userIDKey{}, userID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(c web.Context) string {
	return web.ContextValue[string](c, userIDKey{})
}

// Token returns the session token the request was authenticated with.
func Token(c web.Context) string {
	return web.ContextValue[string](c, tokenKey{})
}

// UserIDExtractor adds "user_id" to log records of authenticated requests.
func UserIDExtractor() logger.ContextExtractor {
	return logger.StringExtractor(userIDKey{}, "user_id")
}
