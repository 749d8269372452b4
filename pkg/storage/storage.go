package storage

import (
	"context"
	"io"
)

// Storage persists opaque blobs under string keys.
type Storage interface {
	// Put writes size bytes from r. Without WithKey a fresh uuid key is used.
	// A reader shorter than size fails with ErrSizeMismatch and leaves nothing behind.
	Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error)

	// Get opens a blob for reading. Missing keys return ErrNotFound.
	// The caller closes the returned reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Stat returns blob metadata without reading it. Missing keys return ErrNotFound.
	Stat(ctx context.Context, key string) (*FileInfo, error)

	// Delete removes a blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping reports whether the backend is reachable and writable.
	Ping(ctx context.Context) error
}

// FileInfo describes a stored blob.
type FileInfo struct {
	Key         string
	ContentType string
	Size        int64
}

// Backend names accepted by Config.Backend.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Config selects and configures the blob backend.
type Config struct {
	Backend string `env:"STORAGE_BACKEND" envDefault:"local" validate:"oneof=local s3"`

	// Root is the directory of the local backend.
	Root string `env:"FOLDER_PATH" envDefault:"/tmp/files_manager" validate:"required_if=Backend local"`

	S3 S3Config
}

// S3Config holds S3-compatible settings. Endpoint and PathStyle target MinIO.
type S3Config struct {
	Bucket    string `env:"S3_BUCKET"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	Endpoint  string `env:"S3_ENDPOINT"`
	Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	PathStyle bool   `env:"S3_PATH_STYLE"`
}

// New builds the backend named by cfg.Backend.
func New(cfg Config) (Storage, error) {
	switch cfg.Backend {
	case BackendS3:
		return NewS3(cfg.S3)
	case BackendLocal, "":
		return NewLocal(cfg.Root)
	default:
		return nil, ErrInvalidConfig
	}
}

// Healthcheck adapts Ping for health.CheckFunc.
func Healthcheck(s Storage) func(context.Context) error {
	return func(ctx context.Context) error {
		if s == nil {
			return ErrInvalidConfig
		}
		return s.Ping(ctx)
	}
}
