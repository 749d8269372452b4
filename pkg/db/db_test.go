package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	t.Parallel()

	t.Run("applies pool settings", func(t *testing.T) {
		t.Parallel()

		cfg, err := parseConfig(Config{
			URL:             "postgres://u:p@localhost:5432/filevault?sslmode=disable",
			MaxConns:        8,
			MinConns:        1,
			MaxConnIdleTime: time.Minute,
		})
		require.NoError(t, err)
		assert.Equal(t, int32(8), cfg.MaxConns)
		assert.Equal(t, int32(1), cfg.MinConns)
		assert.Equal(t, time.Minute, cfg.MaxConnIdleTime)
		assert.Equal(t, "filevault", cfg.ConnConfig.Database)
	})

	t.Run("invalid url", func(t *testing.T) {
		t.Parallel()

		_, err := parseConfig(Config{URL: "postgres://bad host:xx"})
		require.ErrorIs(t, err, ErrFailedToParseDBConfig)
	})
}

func TestConnect_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Connect(ctx, Config{
		URL:           "postgres://u:p@127.0.0.1:1/none?sslmode=disable&connect_timeout=1",
		RetryAttempts: 3,
		RetryInterval: time.Hour,
	})
	require.ErrorIs(t, err, ErrFailedToOpenDBConnection)
}

func TestHealthcheck_NilPool(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Healthcheck(nil)(context.Background()), ErrHealthcheckFailed)
}

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Commit(context.Context) error   { f.committed = true; return nil }
func (f *fakeTx) Rollback(context.Context) error { f.rolledBack = true; return nil }

type fakeBeginner struct{ tx *fakeTx }

func (f *fakeBeginner) Begin(context.Context) (pgx.Tx, error) { return f.tx, nil }

func TestWithTx(t *testing.T) {
	t.Parallel()

	t.Run("commit", func(t *testing.T) {
		t.Parallel()

		b := &fakeBeginner{tx: &fakeTx{}}
		require.NoError(t, WithTx(context.Background(), b, func(pgx.Tx) error { return nil }))
		assert.True(t, b.tx.committed)
		assert.False(t, b.tx.rolledBack)
	})

	t.Run("rollback on error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		b := &fakeBeginner{tx: &fakeTx{}}
		require.ErrorIs(t, WithTx(context.Background(), b, func(pgx.Tx) error { return boom }), boom)
		assert.True(t, b.tx.rolledBack)
		assert.False(t, b.tx.committed)
	})

	t.Run("rollback on panic", func(t *testing.T) {
		t.Parallel()

		b := &fakeBeginner{tx: &fakeTx{}}
		assert.Panics(t, func() {
			_ = WithTx(context.Background(), b, func(pgx.Tx) error { panic("boom") })
		})
		assert.True(t, b.tx.rolledBack)
	})
}
