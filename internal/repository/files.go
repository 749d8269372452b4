package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/filevault/internal/files"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const recordColumns = `id::text, owner_id, name, kind, is_public, parent_id::text, coalesce(blob_path, ''), created_at`

// Files is the PostgreSQL files.Repository.
type Files struct {
	db DBTX
}

// NewFiles returns a repository on db.
func NewFiles(db DBTX) *Files {
	return &Files{db: db}
}

func (r *Files) Insert(ctx context.Context, rec files.Record) (files.Record, error) {
	const q = `
		INSERT INTO files (owner_id, name, kind, is_public, parent_id, blob_path)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id::text, created_at`

	err := r.db.QueryRow(ctx, q,
		rec.OwnerID, rec.Name, string(rec.Kind), rec.IsPublic, parentArg(rec.Parent), rec.BlobPath,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return files.Record{}, errors.Join(ErrQuery, err)
	}
	return rec, nil
}

func (r *Files) FindByID(ctx context.Context, id string) (files.Record, error) {
	if !validID(id) {
		return files.Record{}, files.ErrNotFound
	}

	row := r.db.QueryRow(ctx, `SELECT `+recordColumns+` FROM files WHERE id = $1`, id)
	return scanOne(row)
}

func (r *Files) List(ctx context.Context, q files.ListQuery) ([]files.Record, error) {
	var (
		rows pgx.Rows
		err  error
	)
	switch {
	case q.Parent.IsRoot():
		rows, err = r.db.Query(ctx, `
			SELECT `+recordColumns+` FROM files
			WHERE owner_id = $1 AND parent_id IS NULL
			ORDER BY seq LIMIT $2 OFFSET $3`,
			q.OwnerID, q.Limit, q.Offset)
	case !validID(q.Parent.ID()):
		return []files.Record{}, nil
	default:
		rows, err = r.db.Query(ctx, `
			SELECT `+recordColumns+` FROM files
			WHERE owner_id = $1 AND parent_id = $2
			ORDER BY seq LIMIT $3 OFFSET $4`,
			q.OwnerID, q.Parent.ID(), q.Limit, q.Offset)
	}
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}

	recs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (files.Record, error) {
		return scanRecord(row)
	})
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	if recs == nil {
		recs = []files.Record{}
	}
	return recs, nil
}

func (r *Files) SetPublic(ctx context.Context, ownerID, id string, public bool) (files.Record, error) {
	if !validID(id) {
		return files.Record{}, files.ErrNotFound
	}

	row := r.db.QueryRow(ctx, `
		UPDATE files SET is_public = $3
		WHERE id = $1 AND owner_id = $2
		RETURNING `+recordColumns,
		id, ownerID, public)
	return scanOne(row)
}

// Count returns the number of file records.
func (r *Files) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM files`).Scan(&n); err != nil {
		return 0, errors.Join(ErrQuery, err)
	}
	return n, nil
}

func scanOne(row pgx.Row) (files.Record, error) {
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return files.Record{}, files.ErrNotFound
	}
	if err != nil {
		return files.Record{}, errors.Join(ErrQuery, err)
	}
	return rec, nil
}

func scanRecord(row pgx.Row) (files.Record, error) {
	var (
		rec    files.Record
		kind   string
		parent *string
	)
	if err := row.Scan(&rec.ID, &rec.OwnerID, &rec.Name, &kind, &rec.IsPublic, &parent, &rec.BlobPath, &rec.CreatedAt); err != nil {
		return files.Record{}, err
	}
	rec.Kind = files.Kind(kind)
	if parent != nil {
		rec.Parent = files.FolderRef(*parent)
	}
	return rec, nil
}

func parentArg(p files.ParentRef) any {
	if p.IsRoot() {
		return nil
	}
	return p.ID()
}

// validID filters ids PostgreSQL would reject as malformed uuids.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

var _ files.Repository = (*Files)(nil)
