package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/filevault/pkg/cache"
	"github.com/dmitrymomot/filevault/pkg/logger"
)

// DefaultTTL is the session lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithTTL sets the lifetime of issued sessions.
func WithTTL(ttl time.Duration) Option {
	return func(a *Authenticator) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Authenticator) {
		if l != nil {
			a.logger = l
		}
	}
}

// Authenticator maps opaque session tokens to user ids.
type Authenticator struct {
	store  Store
	logger *slog.Logger
	ttl    time.Duration
}

// NewAuthenticator creates an Authenticator on top of store.
func NewAuthenticator(store Store, opts ...Option) *Authenticator {
	a := &Authenticator{
		store:  store,
		logger: logger.NewNope(),
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Resolve returns the user bound to token.
// An empty, unknown or expired token yields ErrUnauthorized; store failures
// yield ErrStoreUnavailable.
func (a *Authenticator) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}

	userID, err := a.store.Get(ctx, token)
	switch {
	case errors.Is(err, cache.ErrNotFound):
		return "", ErrUnauthorized
	case err != nil:
		return "", errors.Join(ErrStoreUnavailable, err)
	case userID == "":
		return "", ErrUnauthorized
	}
	return userID, nil
}

// Issue creates a new session for userID and returns its token.
func (a *Authenticator) Issue(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrEmptyUserID
	}

	token := uuid.NewString()
	if err := a.store.Set(ctx, token, userID, a.ttl); err != nil {
		return "", errors.Join(ErrStoreUnavailable, err)
	}

	a.logger.DebugContext(ctx, "session issued", slog.String("user_id", userID), slog.Duration("ttl", a.ttl))
	return token, nil
}

// Revoke deletes the session. Revoking an unknown token is not an error.
func (a *Authenticator) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthorized
	}
	if err := a.store.Delete(ctx, token); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
