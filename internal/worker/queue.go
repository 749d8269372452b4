package worker

import (
	"context"
	"time"

	"github.com/dmitrymomot/filevault/internal/files"
	"github.com/dmitrymomot/filevault/pkg/job"
)

// Enqueuer inserts jobs. Both *job.Enqueuer and *job.Manager satisfy it.
type Enqueuer interface {
	Enqueue(ctx context.Context, name string, payload any, opts ...job.EnqueueOption) error
}

// ThumbnailQueue implements files.ThumbnailQueue on top of the job queue.
type ThumbnailQueue struct {
	enq         Enqueuer
	queue       string
	maxAttempts int
}

var _ files.ThumbnailQueue = (*ThumbnailQueue)(nil)

// NewThumbnailQueue routes thumbnail jobs to cfg.Queue with cfg.MaxAttempts.
func NewThumbnailQueue(enq Enqueuer, cfg Config) *ThumbnailQueue {
	return &ThumbnailQueue{enq: enq, queue: cfg.Queue, maxAttempts: cfg.MaxAttempts}
}

// EnqueueThumbnail schedules one job per file. A second call for the same
// file within an hour is dropped by the queue.
func (q *ThumbnailQueue) EnqueueThumbnail(ctx context.Context, j files.ThumbnailJob) error {
	return q.enq.Enqueue(ctx, ThumbnailTaskName, j,
		job.InQueue(q.queue),
		job.MaxAttempts(q.maxAttempts),
		job.UniqueFor(time.Hour),
		job.UniqueKey(j.FileID),
		job.Tags("thumbnail"),
	)
}
