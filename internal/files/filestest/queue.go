package filestest

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrymomot/filevault/internal/files"
)

// Queue records enqueued thumbnail jobs.
type Queue struct {
	// Err, when set, makes EnqueueThumbnail fail.
	Err error

	mu   sync.Mutex
	jobs []files.ThumbnailJob
}

func (q *Queue) EnqueueThumbnail(_ context.Context, job files.ThumbnailJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.Err != nil {
		return q.Err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

// Jobs returns the jobs enqueued so far.
func (q *Queue) Jobs() []files.ThumbnailJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.jobs)
}

var _ files.ThumbnailQueue = (*Queue)(nil)
