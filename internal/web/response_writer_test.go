package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseWriter(t *testing.T) {
	t.Parallel()

	t.Run("write header once", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		rw := NewResponseWriter(w)

		rw.WriteHeader(http.StatusNotFound)
		rw.WriteHeader(http.StatusInternalServerError)

		assert.Equal(t, http.StatusNotFound, rw.Status())
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.True(t, rw.Written())
	})

	t.Run("write implies 200 and counts bytes", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		rw := NewResponseWriter(w)

		_, _ = rw.Write([]byte("hello"))
		_, _ = rw.Write([]byte(" world"))

		assert.Equal(t, http.StatusOK, rw.Status())
		assert.Equal(t, int64(11), rw.Size())
		assert.Equal(t, "hello world", w.Body.String())
	})

	t.Run("hooks run once before first write", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		rw := NewResponseWriter(w)

		var calls []string
		rw.OnBeforeWrite(func() {
			calls = append(calls, "first")
			rw.Header().Set("X-Hook", "1")
		})
		rw.OnBeforeWrite(func() { calls = append(calls, "second") })

		rw.WriteHeader(http.StatusCreated)
		_, _ = rw.Write([]byte("x"))

		assert.Equal(t, []string{"first", "second"}, calls)
		assert.Equal(t, "1", w.Header().Get("X-Hook"))
	})

	t.Run("rewrapping returns the same writer", func(t *testing.T) {
		t.Parallel()

		rw := NewResponseWriter(httptest.NewRecorder())
		assert.Same(t, rw, NewResponseWriter(rw))
		assert.NotNil(t, rw.Unwrap())
	})
}
