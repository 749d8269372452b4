package handlers_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filevault/internal/auth"
	"github.com/dmitrymomot/filevault/internal/files"
	"github.com/dmitrymomot/filevault/internal/files/filestest"
	"github.com/dmitrymomot/filevault/internal/handlers"
	"github.com/dmitrymomot/filevault/internal/repository"
	"github.com/dmitrymomot/filevault/internal/web"
	"github.com/dmitrymomot/filevault/pkg/health"
	"github.com/dmitrymomot/filevault/pkg/logger"
	"github.com/dmitrymomot/filevault/pkg/storage"
)

type server struct {
	app   *web.App
	authn *auth.Authenticator
	queue *filestest.Queue
}

func newServer(t *testing.T, extra ...web.Handler) *server {
	t.Helper()

	blobs, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	s := &server{
		authn: auth.NewAuthenticator(auth.NewMemoryStore(time.Hour, 100)),
		queue: &filestest.Queue{},
	}
	svc := files.NewService(filestest.NewRepository(), blobs, files.WithThumbnailQueue(s.queue))

	s.app = web.New(
		web.WithErrorHandler(handlers.ErrorHandler(logger.NewNope())),
		web.WithNotFoundHandler(handlers.NotFound),
		web.WithHandlers(append([]web.Handler{
			handlers.NewFiles(svc, s.authn),
			handlers.NewSession(s.authn),
		}, extra...)...),
	)
	return s
}

func (s *server) login(t *testing.T, userID string) string {
	t.Helper()
	token, err := s.authn.Issue(context.Background(), userID)
	require.NoError(t, err)
	return token
}

func (s *server) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = strings.NewReader(string(data))
	}

	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set(auth.DefaultTokenHeader, token)
	}
	rec := httptest.NewRecorder()
	s.app.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func TestFiles_PhotosScenario(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	token := s.login(t, "u1")
	payload := []byte("0123456789")

	rec := s.do(t, http.MethodPost, "/files", token, map[string]any{"name": "Photos", "type": "folder"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	folder := decode[map[string]any](t, rec)
	assert.Equal(t, "u1", folder["userId"])
	assert.EqualValues(t, 0, folder["parentId"])
	assert.NotContains(t, folder, "localPath")
	folderID := folder["id"].(string)

	rec = s.do(t, http.MethodPost, "/files", token, map[string]any{
		"name":     "cat.png",
		"type":     "image",
		"parentId": folderID,
		"data":     base64.StdEncoding.EncodeToString(payload),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	image := decode[map[string]any](t, rec)
	assert.Equal(t, folderID, image["parentId"])
	assert.NotEmpty(t, image["localPath"])
	imageID := image["id"].(string)

	jobs := s.queue.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, imageID, jobs[0].FileID)

	rec = s.do(t, http.MethodGet, "/files?parentId="+folderID+"&page=0", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[[]map[string]any](t, rec)
	require.Len(t, listed, 1)
	assert.Equal(t, "cat.png", listed[0]["name"])

	rec = s.do(t, http.MethodPut, "/files/"+imageID+"/publish", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["isPublic"])

	rec = s.do(t, http.MethodGet, "/files/"+imageID+"/data", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, payload, rec.Body.Bytes())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestFiles_Create(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	token := s.login(t, "u1")

	rec := s.do(t, http.MethodPost, "/files", token, map[string]any{"name": "notes.txt", "type": "file", "data": "aGk="})
	require.Equal(t, http.StatusCreated, rec.Code)
	fileID := decode[map[string]any](t, rec)["id"].(string)

	tests := []struct {
		name    string
		token   string
		body    any
		code    int
		message string
	}{
		{"no session", "", map[string]any{"name": "a"}, http.StatusUnauthorized, "Unauthorized"},
		{"unknown session", "bogus", map[string]any{"name": "a"}, http.StatusUnauthorized, "Unauthorized"},
		{"missing name", token, map[string]any{"type": "file"}, http.StatusBadRequest, "Missing name"},
		{"missing type", token, map[string]any{"name": "a"}, http.StatusBadRequest, "Missing type"},
		{"missing data", token, map[string]any{"name": "a", "type": "image"}, http.StatusBadRequest, "Missing data"},
		{"invalid base64", token, map[string]any{"name": "a", "type": "file", "data": "%%%"}, http.StatusBadRequest, "Invalid data"},
		{"malformed json", token, "{", http.StatusBadRequest, "Invalid data"},
		{"unknown parent", token, map[string]any{"name": "a", "type": "folder", "parentId": "nope"}, http.StatusBadRequest, "Parent not found"},
		{"file as parent", token, map[string]any{"name": "a", "type": "folder", "parentId": fileID}, http.StatusBadRequest, "Parent is not a folder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/files", tt.token, tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.message, errorOf(t, rec))
		})
	}

	t.Run("numeric root parent", func(t *testing.T) {
		for _, parent := range []any{0, "0", "", nil} {
			rec := s.do(t, http.MethodPost, "/files", token, map[string]any{"name": "d", "type": "folder", "parentId": parent})
			require.Equal(t, http.StatusCreated, rec.Code, parent)
			assert.EqualValues(t, 0, decode[map[string]any](t, rec)["parentId"])
		}
	})
}

func TestFiles_AccessPolicy(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	owner := s.login(t, "owner")
	other := s.login(t, "other")

	rec := s.do(t, http.MethodPost, "/files", owner, map[string]any{"name": "secret.txt", "type": "file", "data": "aGk="})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[map[string]any](t, rec)["id"].(string)

	rec = s.do(t, http.MethodPost, "/files", owner, map[string]any{"name": "Docs", "type": "folder", "isPublic": true})
	require.Equal(t, http.StatusCreated, rec.Code)
	folderID := decode[map[string]any](t, rec)["id"].(string)

	missing := s.do(t, http.MethodGet, "/files/does-not-exist/data", other, nil)
	require.Equal(t, http.StatusNotFound, missing.Code)

	t.Run("private content is indistinguishable from missing", func(t *testing.T) {
		for _, token := range []string{"", other} {
			rec := s.do(t, http.MethodGet, "/files/"+id+"/data", token, nil)
			assert.Equal(t, missing.Code, rec.Code)
			assert.Equal(t, missing.Body.String(), rec.Body.String())
		}
	})

	t.Run("show is owner only", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/files/"+id, owner, nil).Code)
		assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/files/"+id, other, nil).Code)
		assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/files/"+id, "", nil).Code)
	})

	t.Run("only the owner can publish", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, "/files/"+id+"/publish", other, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Not found", errorOf(t, rec))
	})

	t.Run("folder has no content", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/files/"+folderID+"/data", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "A folder doesn't have content", errorOf(t, rec))
	})

	t.Run("size is checked after access", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/files/"+id+"/data?size=7", other, nil).Code)

		rec := s.do(t, http.MethodGet, "/files/"+id+"/data?size=7", owner, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid size", errorOf(t, rec))
	})

	t.Run("unpublish", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, "/files/"+folderID+"/unpublish", owner, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, decode[map[string]any](t, rec)["isPublic"])
	})
}

func TestFiles_ListPagination(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	token := s.login(t, "u1")
	for i := range files.PageSize + 5 {
		rec := s.do(t, http.MethodPost, "/files", token, map[string]any{"name": fmt.Sprintf("d%02d", i), "type": "folder"})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	seen := map[string]bool{}
	for page, want := range []int{files.PageSize, 5, 0} {
		rec := s.do(t, http.MethodGet, fmt.Sprintf("/files?page=%d", page), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		views := decode[[]map[string]any](t, rec)
		require.Len(t, views, want)
		for _, v := range views {
			name := v["name"].(string)
			assert.False(t, seen[name], name)
			seen[name] = true
		}
	}
	assert.Len(t, seen, files.PageSize+5)

	rec := s.do(t, http.MethodGet, "/files?page=abc", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), files.PageSize)

	other := s.login(t, "u2")
	rec = s.do(t, http.MethodGet, "/files", other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSession_Disconnect(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	token := s.login(t, "u1")

	rec := s.do(t, http.MethodGet, "/disconnect", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/disconnect", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/files", token, nil).Code)
}

type stubStats struct {
	stats repository.Stats
	err   error
}

func (s stubStats) Stats(context.Context) (repository.Stats, error) { return s.stats, s.err }

func TestStatus(t *testing.T) {
	t.Parallel()

	checks := health.Checks{
		"db":    func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("connection refused") },
	}

	t.Run("status reports each dependency", func(t *testing.T) {
		t.Parallel()

		s := newServer(t, handlers.NewStatus(checks, stubStats{}))
		rec := s.do(t, http.MethodGet, "/status", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"db":true,"redis":false}`, rec.Body.String())
	})

	t.Run("stats", func(t *testing.T) {
		t.Parallel()

		s := newServer(t, handlers.NewStatus(checks, stubStats{stats: repository.Stats{Users: 2, Files: 7}}))
		rec := s.do(t, http.MethodGet, "/stats", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"users":2,"files":7}`, rec.Body.String())
	})

	t.Run("stats failure is internal", func(t *testing.T) {
		t.Parallel()

		s := newServer(t, handlers.NewStatus(checks, stubStats{err: errors.New("db down")}))
		rec := s.do(t, http.MethodGet, "/stats", "", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", errorOf(t, rec))
	})
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"wrapped sentinel", fmt.Errorf("create: %w", files.ErrMissingName), http.StatusBadRequest, "Missing name"},
		{"joined sentinel", errors.Join(files.ErrInvalidSize, errors.New("atoi")), http.StatusBadRequest, "Invalid size"},
		{"session", auth.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
		{"store outage", errors.Join(auth.ErrStoreUnavailable, errors.New("dial")), http.StatusInternalServerError, "Internal server error"},
		{"blob io", errors.Join(files.ErrBlobIO, errors.New("disk full")), http.StatusInternalServerError, "Internal server error"},
		{"http error passes through", web.ErrForbidden("nope"), http.StatusForbidden, "nope"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := handlers.Classify(tt.err)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	rec := s.do(t, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", errorOf(t, rec))
}
