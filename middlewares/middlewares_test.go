package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filevault/internal/web"
	"github.com/dmitrymomot/filevault/middlewares"
)

type routes func(r web.Router)

func (f routes) Routes(r web.Router) { f(r) }

func serve(t *testing.T, app *web.App, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	newApp := func(captured *string, opts ...middlewares.RequestIDOption) *web.App {
		return web.New(
			web.WithMiddleware(middlewares.RequestID(opts...)),
			web.WithHandlers(routes(func(r web.Router) {
				r.GET("/", func(c web.Context) error {
					*captured = middlewares.GetRequestID(c)
					return c.NoContent(http.StatusNoContent)
				})
			})),
		)
	}

	t.Run("generates new request ID when not present", func(t *testing.T) {
		t.Parallel()

		var id string
		rec := serve(t, newApp(&id), httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, id)
		require.Len(t, id, 36)
		require.Equal(t, id, rec.Header().Get("X-Request-ID"))
	})

	t.Run("uses existing request ID from header", func(t *testing.T) {
		t.Parallel()

		var id string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "upstream-123")
		rec := serve(t, newApp(&id), req)

		require.Equal(t, "upstream-123", id)
		require.Equal(t, "upstream-123", rec.Header().Get("X-Request-ID"))
	})

	t.Run("custom generator and response header", func(t *testing.T) {
		t.Parallel()

		var id string
		app := newApp(&id,
			middlewares.WithRequestIDGenerator(func() string { return "fixed" }),
			middlewares.WithRequestIDResponseHeader("X-Trace"),
			middlewares.WithRequestIDHeaders("X-Trace"),
		)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "ignored")
		rec := serve(t, app, req)

		require.Equal(t, "fixed", id)
		require.Equal(t, "fixed", rec.Header().Get("X-Trace"))
	})

	t.Run("extractor reads the stored ID", func(t *testing.T) {
		t.Parallel()

		var attrValue string
		app := web.New(
			web.WithMiddleware(middlewares.RequestID(middlewares.WithRequestIDGenerator(func() string { return "rid-1" }))),
			web.WithHandlers(routes(func(r web.Router) {
				r.GET("/", func(c web.Context) error {
					attr, ok := middlewares.RequestIDExtractor()(c.Context())
					require.True(t, ok)
					attrValue = attr.Value.String()
					return nil
				})
			})),
		)
		serve(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, "rid-1", attrValue)
	})
}

func TestRecover(t *testing.T) {
	t.Parallel()

	newApp := func(captured *error, opts ...middlewares.RecoverOption) *web.App {
		return web.New(
			web.WithErrorHandler(func(c web.Context, err error) error {
				*captured = err
				return c.String(http.StatusInternalServerError, "boom")
			}),
			web.WithHandlers(routes(func(r web.Router) {
				r.GET("/panic", func(c web.Context) error {
					panic("test panic")
				}, middlewares.Recover(opts...))
				r.GET("/ok", func(c web.Context) error {
					return c.String(http.StatusOK, "fine")
				}, middlewares.Recover(opts...))
			})),
		)
	}

	t.Run("recovers from panic and returns PanicError", func(t *testing.T) {
		t.Parallel()

		var got error
		rec := serve(t, newApp(&got), httptest.NewRequest(http.MethodGet, "/panic", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		pe, ok := middlewares.AsPanicError(got)
		require.True(t, ok)
		require.Equal(t, "test panic", pe.Value)
		require.NotEmpty(t, pe.Stack)
	})

	t.Run("stack can be disabled", func(t *testing.T) {
		t.Parallel()

		var got error
		serve(t, newApp(&got, middlewares.WithRecoverDisablePrintStack()), httptest.NewRequest(http.MethodGet, "/panic", nil))

		pe, ok := middlewares.AsPanicError(got)
		require.True(t, ok)
		require.Nil(t, pe.Stack)
	})

	t.Run("stack size is bounded", func(t *testing.T) {
		t.Parallel()

		var got error
		serve(t, newApp(&got, middlewares.WithRecoverStackSize(64)), httptest.NewRequest(http.MethodGet, "/panic", nil))

		pe, ok := middlewares.AsPanicError(got)
		require.True(t, ok)
		require.LessOrEqual(t, len(pe.Stack), 64)
	})

	t.Run("passes through when no panic", func(t *testing.T) {
		t.Parallel()

		var got error
		rec := serve(t, newApp(&got), httptest.NewRequest(http.MethodGet, "/ok", nil))

		require.NoError(t, got)
		require.Equal(t, "fine", rec.Body.String())
	})
}

func TestPanicError(t *testing.T) {
	t.Parallel()

	err := &middlewares.PanicError{Value: 42}
	require.Equal(t, "panic: 42", err.Error())
	require.True(t, middlewares.IsPanicError(errors.Join(errors.New("outer"), err)))
	require.False(t, middlewares.IsPanicError(errors.New("plain")))

	_, ok := middlewares.AsPanicError(errors.New("plain"))
	require.False(t, ok)
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	app := web.New(
		web.WithMiddleware(middlewares.Metrics(middlewares.WithMetricsRegisterer(reg))),
		web.WithErrorHandler(func(c web.Context, err error) error {
			if he := web.AsHTTPError(err); he != nil {
				return c.String(he.StatusCode(), he.Message)
			}
			return c.String(http.StatusInternalServerError, "internal")
		}),
		web.WithHandlers(routes(func(r web.Router) {
			r.GET("/files/{id}", func(c web.Context) error {
				if c.Param("id") == "missing" {
					return web.ErrNotFound("Not found")
				}
				return c.String(http.StatusOK, c.Param("id"))
			})
		})),
	)

	serve(t, app, httptest.NewRequest(http.MethodGet, "/files/a", nil))
	serve(t, app, httptest.NewRequest(http.MethodGet, "/files/b", nil))
	serve(t, app, httptest.NewRequest(http.MethodGet, "/files/missing", nil))
	serve(t, app, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	expected := `
# HELP filevault_http_requests_total HTTP requests handled, by method, route and status.
# TYPE filevault_http_requests_total counter
filevault_http_requests_total{method="GET",route="/files/{id}",status="200"} 2
filevault_http_requests_total{method="GET",route="/files/{id}",status="404"} 1
filevault_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "filevault_http_requests_total"))

	count, err := testutil.GatherAndCount(reg, "filevault_http_request_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}
