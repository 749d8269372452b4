// Package filestest provides an in-memory files.Repository for tests.
package filestest

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/filevault/internal/files"
)

// Repository keeps records in memory, in insertion order.
type Repository struct {
	// InsertErr, when set, makes Insert fail.
	InsertErr error

	mu      sync.Mutex
	records []files.Record
}

// NewRepository returns an empty Repository.
func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) Insert(_ context.Context, rec files.Record) (files.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.InsertErr != nil {
		return files.Record{}, r.InsertErr
	}

	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()
	r.records = append(r.records, rec)
	return rec, nil
}

func (r *Repository) FindByID(_ context.Context, id string) (files.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.index(id); i >= 0 {
		return r.records[i], nil
	}
	return files.Record{}, files.ErrNotFound
}

func (r *Repository) List(_ context.Context, q files.ListQuery) ([]files.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []files.Record
	for _, rec := range r.records {
		if rec.OwnerID == q.OwnerID && rec.Parent == q.Parent {
			matched = append(matched, rec)
		}
	}
	if q.Offset >= len(matched) {
		return []files.Record{}, nil
	}
	end := min(q.Offset+q.Limit, len(matched))
	return slices.Clone(matched[q.Offset:end]), nil
}

func (r *Repository) SetPublic(_ context.Context, ownerID, id string, public bool) (files.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 || r.records[i].OwnerID != ownerID {
		return files.Record{}, files.ErrNotFound
	}
	r.records[i].IsPublic = public
	return r.records[i], nil
}

// Count returns the number of stored records.
func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func (r *Repository) index(id string) int {
	return slices.IndexFunc(r.records, func(rec files.Record) bool { return rec.ID == id })
}

var _ files.Repository = (*Repository)(nil)
