package handlers

import (
	"net/http"

	"github.com/dmitrymomot/filevault/internal/auth"
	"github.com/dmitrymomot/filevault/internal/files"
	"github.com/dmitrymomot/filevault/internal/web"
)

// Files serves the file routes.
type Files struct {
	svc      *files.Service
	required web.Middleware
	optional web.Middleware
}

// NewFiles binds svc to the router. Session options apply to both the
// required and the optional auth gate.
func NewFiles(svc *files.Service, sessions auth.Resolver, opts ...auth.MiddlewareOption) *Files {
	return &Files{
		svc:      svc,
		required: auth.Require(sessions, opts...),
		optional: auth.Optional(sessions, opts...),
	}
}

func (h *Files) Routes(r web.Router) {
	r.POST("/files", h.create, h.required)
	r.GET("/files", h.list, h.required)
	r.GET("/files/{id}", h.show, h.required)
	r.PUT("/files/{id}/publish", h.publish, h.required)
	r.PUT("/files/{id}/unpublish", h.unpublish, h.required)
	r.GET("/files/{id}/data", h.content, h.optional)
}

func (h *Files) create(c web.Context) error {
	var in files.CreateInput
	if err := c.BindJSON(&in); err != nil {
		return err
	}

	view, err := h.svc.Create(c, auth.UserID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

func (h *Files) show(c web.Context) error {
	view, err := h.svc.Get(c, auth.UserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// list pages through a folder. A missing or malformed page is page 0.
func (h *Files) list(c web.Context) error {
	parent := files.ParseParentRef(c.Query("parentId"))
	page := web.QueryDefault(c, "page", 0)

	views, err := h.svc.List(c, auth.UserID(c), parent, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Files) publish(c web.Context) error {
	return h.visibility(c, true)
}

func (h *Files) unpublish(c web.Context) error {
	return h.visibility(c, false)
}

func (h *Files) visibility(c web.Context, public bool) error {
	view, err := h.svc.SetVisibility(c, auth.UserID(c), c.Param("id"), public)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Files) content(c web.Context) error {
	content, err := h.svc.Content(c, auth.UserID(c), c.Param("id"), c.Query("size"))
	if err != nil {
		return err
	}
	defer content.Close()

	return c.Blob(http.StatusOK, content.ContentType, content)
}
