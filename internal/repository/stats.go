package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/filevault/pkg/db"
)

// Stats are the totals reported by GET /stats.
type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// StatsReader counts users and files from one snapshot.
type StatsReader struct {
	db db.TxBeginner
}

// NewStatsReader returns a StatsReader on pool.
func NewStatsReader(pool db.TxBeginner) *StatsReader {
	return &StatsReader{db: pool}
}

// Stats counts both tables inside a single transaction.
func (s *StatsReader) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		if st.Users, err = NewUsers(tx).Count(ctx); err != nil {
			return err
		}
		st.Files, err = NewFiles(tx).Count(ctx)
		return err
	})
	return st, err
}
