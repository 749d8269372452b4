package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/filevault/internal/files"
	"github.com/dmitrymomot/filevault/internal/metrics"
	"github.com/dmitrymomot/filevault/pkg/job"
	"github.com/dmitrymomot/filevault/pkg/logger"
	"github.com/dmitrymomot/filevault/pkg/storage"
)

// Config holds the background job settings.
type Config struct {
	Widths        []int         `env:"THUMBNAIL_WIDTHS" envDefault:"500,250,100" envSeparator:"," validate:"min=1,dive,gt=0,lte=4096"`
	Queue         string        `env:"THUMBNAIL_QUEUE" envDefault:"thumbnails" validate:"required"`
	Workers       int           `env:"THUMBNAIL_WORKERS" envDefault:"4" validate:"gte=1"`
	MaxAttempts   int           `env:"THUMBNAIL_MAX_ATTEMPTS" envDefault:"5" validate:"gte=1"`
	MaxPixels     int           `env:"THUMBNAIL_MAX_PIXELS" envDefault:"50000000" validate:"gte=1"`
	Embedded      bool          `env:"WORKER_EMBEDDED" envDefault:"true"`
	SweepSchedule string        `env:"SWEEP_SCHEDULE" envDefault:"*/30 * * * *"`
	SweepMaxAge   time.Duration `env:"SWEEP_MAX_AGE" envDefault:"1h"`
}

// Deps are the collaborators the tasks run against.
type Deps struct {
	Records RecordFinder
	Blobs   storage.Storage
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Options returns the job.Manager options that register every task and
// queue. The temp sweeper is only scheduled when the blob backend has
// temp files to sweep and a schedule is set.
func Options(cfg Config, deps Deps) []job.Option {
	log := deps.Logger
	if log == nil {
		log = logger.NewNope()
	}

	thumbnails := NewThumbnailTask(deps.Records, deps.Blobs,
		WithWidths(cfg.Widths...),
		WithMaxPixels(cfg.MaxPixels),
		WithLogger(log),
		WithMetrics(deps.Metrics),
	)

	opts := []job.Option{
		job.WithLogger(log),
		job.WithQueue(cfg.Queue, cfg.Workers),
		job.WithTask[files.ThumbnailJob](thumbnails),
		job.WithDeadLetterHandler(DeadLetterHandler(deps.Metrics, log)),
	}

	if sweeper, ok := deps.Blobs.(TempSweeper); ok && cfg.SweepSchedule != "" {
		opts = append(opts, job.WithScheduledTask(NewSweepTask(sweeper, cfg.SweepSchedule, cfg.SweepMaxAge, log)))
	}
	return opts
}

// DeadLetterHandler counts and logs jobs that used up their attempts.
func DeadLetterHandler(m *metrics.Metrics, log *slog.Logger) job.DeadLetterHandler {
	return func(ctx context.Context, dl job.DeadLetter) {
		m.JobDeadLettered(dl.Task)
		log.ErrorContext(ctx, "job dead-lettered",
			slog.String("task", dl.Task),
			slog.Int64("job_id", dl.JobID),
			slog.Int("attempt", dl.Attempt),
			slog.String("payload", string(dl.Payload)),
			slog.Any("error", dl.Err),
		)
	}
}
