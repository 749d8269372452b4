package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filevault/internal/auth"
	"github.com/dmitrymomot/filevault/internal/web"
)

type failingStore struct{ err error }

func (s failingStore) Get(context.Context, string) (string, error)             { return "", s.err }
func (s failingStore) Set(context.Context, string, string, time.Duration) error { return s.err }
func (s failingStore) Delete(context.Context, string) error                     { return s.err }

func TestAuthenticator(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("issue then resolve", func(t *testing.T) {
		t.Parallel()

		authn := auth.NewAuthenticator(auth.NewMemoryStore(time.Hour, 0))
		token, err := authn.Issue(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, token, 36)

		userID, err := authn.Resolve(ctx, token)
		require.NoError(t, err)
		require.Equal(t, "user-1", userID)
	})

	t.Run("empty and unknown tokens are unauthorized", func(t *testing.T) {
		t.Parallel()

		authn := auth.NewAuthenticator(auth.NewMemoryStore(time.Hour, 0))

		_, err := authn.Resolve(ctx, "")
		require.ErrorIs(t, err, auth.ErrUnauthorized)

		_, err = authn.Resolve(ctx, "nope")
		require.ErrorIs(t, err, auth.ErrUnauthorized)
	})

	t.Run("expired session is unauthorized", func(t *testing.T) {
		t.Parallel()

		authn := auth.NewAuthenticator(auth.NewMemoryStore(time.Hour, 0), auth.WithTTL(5*time.Millisecond))
		token, err := authn.Issue(ctx, "user-1")
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)
		_, err = authn.Resolve(ctx, token)
		require.ErrorIs(t, err, auth.ErrUnauthorized)
	})

	t.Run("revoke ends the session", func(t *testing.T) {
		t.Parallel()

		authn := auth.NewAuthenticator(auth.NewMemoryStore(time.Hour, 0))
		token, err := authn.Issue(ctx, "user-1")
		require.NoError(t, err)

		require.NoError(t, authn.Revoke(ctx, token))
		require.NoError(t, authn.Revoke(ctx, token))

		_, err = authn.Resolve(ctx, token)
		require.ErrorIs(t, err, auth.ErrUnauthorized)
		require.ErrorIs(t, authn.Revoke(ctx, ""), auth.ErrUnauthorized)
	})

	t.Run("issue requires a user", func(t *testing.T) {
		t.Parallel()

		authn := auth.NewAuthenticator(auth.NewMemoryStore(time.Hour, 0))
		_, err := authn.Issue(ctx, "")
		require.ErrorIs(t, err, auth.ErrEmptyUserID)
	})

	t.Run("store failure is not an auth decision", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection refused")
		authn := auth.NewAuthenticator(failingStore{err: cause})

		_, err := authn.Resolve(ctx, "token")
		require.ErrorIs(t, err, auth.ErrStoreUnavailable)
		require.ErrorIs(t, err, cause)
		require.NotErrorIs(t, err, auth.ErrUnauthorized)

		_, err = authn.Issue(ctx, "user-1")
		require.ErrorIs(t, err, auth.ErrStoreUnavailable)

		require.ErrorIs(t, authn.Revoke(ctx, "token"), auth.ErrStoreUnavailable)
	})
}

type routes func(r web.Router)

func (f routes) Routes(r web.Router) { f(r) }

func newApp(authn auth.Resolver, opts ...auth.MiddlewareOption) *web.App {
	whoami := func(c web.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"user": auth.UserID(c), "token": auth.Token(c)})
	}
	return web.New(
		web.WithErrorHandler(func(c web.Context, err error) error {
			switch {
			case errors.Is(err, auth.ErrUnauthorized):
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			default:
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
			}
		}),
		web.WithHandlers(routes(func(r web.Router) {
			r.GET("/required", whoami, auth.Require(authn, opts...))
			r.GET("/optional", whoami, auth.Optional(authn, opts...))
		})),
	)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	authn := auth.NewAuthenticator(auth.NewMemoryStore(time.Hour, 0))
	token, err := authn.Issue(ctx, "user-1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		path     string
		header   string
		value    string
		wantCode int
		wantBody string
	}{
		{"require with X-Token", "/required", "X-Token", token, http.StatusOK, `"user":"user-1"`},
		{"require with bearer", "/required", "Authorization", "Bearer " + token, http.StatusOK, `"user":"user-1"`},
		{"require without token", "/required", "", "", http.StatusUnauthorized, `"error":"Unauthorized"`},
		{"require with unknown token", "/required", "X-Token", "bogus", http.StatusUnauthorized, `"error":"Unauthorized"`},
		{"optional with token", "/optional", "X-Token", token, http.StatusOK, `"user":"user-1"`},
		{"optional anonymous", "/optional", "", "", http.StatusOK, `"user":""`},
		{"optional with unknown token", "/optional", "X-Token", "bogus", http.StatusOK, `"user":""`},
	}

	app := newApp(authn)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			app.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}

	t.Run("custom header", func(t *testing.T) {
		t.Parallel()

		app := newApp(authn, auth.WithTokenHeader("X-Session"))
		req := httptest.NewRequest(http.MethodGet, "/required", nil)
		req.Header.Set("X-Session", token)
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"token":"`+token+`"`)
	})

	t.Run("store outage fails both modes", func(t *testing.T) {
		t.Parallel()

		app := newApp(auth.NewAuthenticator(failingStore{err: errors.New("down")}))
		for _, path := range []string{"/required", "/optional"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.Header.Set("X-Token", "anything")
			rec := httptest.NewRecorder()
			app.ServeHTTP(rec, req)
			require.Equal(t, http.StatusInternalServerError, rec.Code, path)
		}
	})
}

func TestUserIDExtractor(t *testing.T) {
	t.Parallel()

	_, ok := auth.UserIDExtractor()(context.Background())
	require.False(t, ok)
}
