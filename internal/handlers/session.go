package handlers

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/filevault/internal/auth"
	"github.com/dmitrymomot/filevault/internal/web"
)

// SessionRevoker resolves and revokes session tokens.
type SessionRevoker interface {
	auth.Resolver
	Revoke(ctx context.Context, token string) error
}

// Session serves GET /disconnect.
type Session struct {
	sessions SessionRevoker
	required web.Middleware
}

func NewSession(sessions SessionRevoker, opts ...auth.MiddlewareOption) *Session {
	return &Session{sessions: sessions, required: auth.Require(sessions, opts...)}
}

func (h *Session) Routes(r web.Router) {
	r.GET("/disconnect", h.disconnect, h.required)
}

func (h *Session) disconnect(c web.Context) error {
	if err := h.sessions.Revoke(c, auth.Token(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
