//go:build integration

package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	minioUser     = "minioadmin"
	minioPassword = "minioadmin"
	minioBucket   = "filevault"
)

func newMinioStorage(t *testing.T) *S3Storage {
	t.Helper()

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Cmd:          []string{"server", "/data"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     minioUser,
				"MINIO_ROOT_PASSWORD": minioPassword,
			},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	s, err := NewS3(S3Config{
		Bucket:    minioBucket,
		AccessKey: minioUser,
		SecretKey: minioPassword,
		Endpoint:  fmt.Sprintf("http://%s:%s", host, port.Port()),
		PathStyle: true,
	})
	require.NoError(t, err)

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(minioBucket)})
	require.NoError(t, err)
	return s
}

func TestS3Storage_Integration(t *testing.T) {
	s := newMinioStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	info, err := s.Put(ctx, strings.NewReader("hello"), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.Equal(t, "text/plain; charset=utf-8", info.ContentType)

	st, err := s.Stat(ctx, info.Key)
	require.NoError(t, err)
	assert.Equal(t, int64(5), st.Size)

	rc, err := s.Get(ctx, info.Key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	_, err = s.Put(ctx, strings.NewReader("abc"), 10, WithKey("short"))
	require.ErrorIs(t, err, ErrSizeMismatch)

	require.NoError(t, s.Delete(ctx, info.Key))
	_, err = s.Get(ctx, info.Key)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Stat(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
