package storage_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filevault/pkg/storage"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newLocal(t *testing.T) *storage.Local {
	t.Helper()

	l, err := storage.NewLocal(filepath.Join(t.TempDir(), "nested", "root"))
	require.NoError(t, err)
	return l
}

func TestLocal_PutGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := newLocal(t)

	t.Run("generated key", func(t *testing.T) {
		t.Parallel()

		info, err := l.Put(ctx, bytes.NewReader(pngHeader), int64(len(pngHeader)))
		require.NoError(t, err)
		assert.Len(t, info.Key, 36)
		assert.Equal(t, "image/png", info.ContentType)
		assert.Equal(t, int64(len(pngHeader)), info.Size)

		rc, err := l.Get(ctx, info.Key)
		require.NoError(t, err)
		defer rc.Close()

		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, pngHeader, got)
	})

	t.Run("explicit key overwrites", func(t *testing.T) {
		t.Parallel()

		_, err := l.Put(ctx, strings.NewReader("one"), 3, storage.WithKey("fixed"))
		require.NoError(t, err)
		_, err = l.Put(ctx, strings.NewReader("second"), 6, storage.WithKey("fixed"), storage.WithContentType("text/plain"))
		require.NoError(t, err)

		info, err := l.Stat(ctx, "fixed")
		require.NoError(t, err)
		assert.Equal(t, int64(6), info.Size)
	})

	t.Run("short reader leaves nothing", func(t *testing.T) {
		t.Parallel()

		_, err := l.Put(ctx, strings.NewReader("abc"), 10, storage.WithKey("short"))
		require.ErrorIs(t, err, storage.ErrSizeMismatch)

		_, err = l.Get(ctx, "short")
		require.ErrorIs(t, err, storage.ErrNotFound)
		assertNoTempFiles(t, l.Root())
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		_, err := l.Get(ctx, "missing")
		require.ErrorIs(t, err, storage.ErrNotFound)
		_, err = l.Stat(ctx, "missing")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := l.Put(cctx, strings.NewReader("x"), 1)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestLocal_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := newLocal(t)

	_, err := l.Put(ctx, strings.NewReader("x"), 1, storage.WithKey("gone"))
	require.NoError(t, err)

	require.NoError(t, l.Delete(ctx, "gone"))
	require.NoError(t, l.Delete(ctx, "gone"))

	_, err = l.Get(ctx, "gone")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLocal_PutRecreatesRoot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := newLocal(t)
	require.NoError(t, os.RemoveAll(l.Root()))

	info, err := l.Put(ctx, strings.NewReader("hello"), 5, storage.WithKey("k1"))
	require.NoError(t, err)
	assert.Equal(t, "k1", info.Key)

	r, err := l.Get(ctx, "k1")
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestLocal_Ping(t *testing.T) {
	t.Parallel()

	l := newLocal(t)
	require.NoError(t, l.Ping(context.Background()))
	require.NoError(t, storage.Healthcheck(l)(context.Background()))
	assertNoTempFiles(t, l.Root())
}

func TestLocal_SweepTemp(t *testing.T) {
	t.Parallel()

	l := newLocal(t)
	old := filepath.Join(l.Root(), ".put-old.tmp")
	fresh := filepath.Join(l.Root(), ".put-fresh.tmp")
	blob := filepath.Join(l.Root(), "blob")
	for _, p := range []string{old, fresh, blob} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))
	require.NoError(t, os.Chtimes(blob, past, past))

	removed, err := l.SweepTemp(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, blob)
}

func TestValidateKey(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"", " ", "a/b", `a\b`, "..", "../etc", ".hidden", "x.tmp"} {
		assert.ErrorIs(t, storage.ValidateKey(key), storage.ErrInvalidKey, key)
	}
	for _, key := range []string{"9b2f0c4e-1c1e-4c8e-a7f4-3d1f2e0b6a11", "abc_500", "cat.png"} {
		assert.NoError(t, storage.ValidateKey(key), key)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	s, err := storage.New(storage.Config{Backend: storage.BackendLocal, Root: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &storage.Local{}, s)

	_, err = storage.New(storage.Config{Backend: storage.BackendS3})
	require.ErrorIs(t, err, storage.ErrInvalidConfig)

	_, err = storage.New(storage.Config{Backend: "ftp"})
	require.ErrorIs(t, err, storage.ErrInvalidConfig)

	_, err = storage.NewLocal("  ")
	require.ErrorIs(t, err, storage.ErrInvalidConfig)
}

func assertNoTempFiles(t *testing.T, root string) {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(root, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
