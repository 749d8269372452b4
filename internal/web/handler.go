package web

// Handler declares routes on a router.
//
//	type FilesHandler struct{ svc *files.Service }
//
//	func (h *FilesHandler) Routes(r web.Router) {
//		r.POST("/files", h.create, auth.Require(authn))
//		r.GET("/files/{id}", h.show, auth.Require(authn))
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// Returning a non-nil error hands it to the app's ErrorHandler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc. It may inspect the request, enrich the
// context via c.Set, short-circuit by returning an error, or pass on to next.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers and middlewares.
type ErrorHandler func(Context, error) error
