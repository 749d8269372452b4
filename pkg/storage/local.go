package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	tempPattern = ".put-*.tmp"
	tempSuffix  = ".tmp"
)

// Local stores blobs as flat files under one directory.
// Writes go to a temp file in the same directory and are renamed into
// place, so readers never observe a partial blob.
type Local struct {
	root string
}

// NewLocal creates root (mkdir -p) and returns a backend rooted there.
func NewLocal(root string) (*Local, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("%w: local root is required", ErrInvalidConfig)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	return &Local{root: abs}, nil
}

// Root returns the absolute blob directory.
func (l *Local) Root() string { return l.root }

func (l *Local) Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o := newPutOptions(opts)
	key := o.key
	if key == "" {
		key = uuid.NewString()
	}
	path, err := l.path(key)
	if err != nil {
		return nil, err
	}

	contentType := o.contentType
	if contentType == "" {
		br := bufio.NewReaderSize(r, mimeDetectionBytes)
		contentType = sniff(br)
		r = br
	}

	// The root may be removed under a running process, e.g. by a tmp cleaner.
	if err := os.MkdirAll(l.root, 0o755); err != nil {
		return nil, errors.Join(ErrUploadFailed, err)
	}
	tmp, err := os.CreateTemp(l.root, tempPattern)
	if err != nil {
		return nil, errors.Join(ErrUploadFailed, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	n, err := io.Copy(tmp, r)
	if err != nil {
		cleanup()
		return nil, errors.Join(ErrUploadFailed, err)
	}
	if size >= 0 && n != size {
		cleanup()
		return nil, fmt.Errorf("%w: wrote %d of %d bytes", ErrSizeMismatch, n, size)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return nil, errors.Join(ErrUploadFailed, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return nil, errors.Join(ErrUploadFailed, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return nil, errors.Join(ErrUploadFailed, err)
	}

	return &FileInfo{Key: key, ContentType: contentType, Size: n}, nil
}

func (l *Local) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := l.path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrReadFailed, err)
	}
	return f, nil
}

func (l *Local) Stat(ctx context.Context, key string) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := l.path(key)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrReadFailed, err)
	}
	return &FileInfo{Key: key, Size: fi.Size()}, nil
}

func (l *Local) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Join(ErrDeleteFailed, err)
	}
	return nil
}

// Ping verifies the root still exists and accepts new files.
func (l *Local) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.CreateTemp(l.root, tempPattern)
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// SweepTemp removes temp files older than maxAge, left behind by writes
// interrupted by a crash. It returns the number of files removed.
func (l *Local) SweepTemp(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return 0, errors.Join(ErrUnavailable, err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), tempSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(l.root, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

// path maps a key to a file directly inside root.
func (l *Local) path(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(l.root, key), nil
}

// ValidateKey rejects keys that could escape a flat namespace or collide
// with temp files.
func ValidateKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "",
		strings.ContainsAny(key, `/\`),
		strings.Contains(key, ".."),
		strings.HasPrefix(key, "."),
		strings.HasSuffix(key, tempSuffix):
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

var _ Storage = (*Local)(nil)
