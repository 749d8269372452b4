package job

import (
	"context"
	"log/slog"
)

type config struct {
	registry   *taskRegistry
	queues     map[string]int
	logger     *slog.Logger
	deadLetter DeadLetterHandler
	schedules  []scheduleConfig
	maxWorkers int
}

func newConfig() *config {
	return &config{
		registry: newTaskRegistry(),
		queues:   make(map[string]int),
	}
}

//nolint:betteralign // all fields contain pointers, no optimization possible
type scheduleConfig struct {
	handler  scheduledHandler
	name     string
	schedule string
}

type scheduledHandler func(context.Context) error

// DeadLetter describes a job that failed its final attempt.
type DeadLetter struct {
	Err     error
	Task    string
	Payload []byte
	JobID   int64
	Attempt int
}

// DeadLetterHandler is invoked once per job that exhausts its attempts.
// Cancelled jobs never reach it.
type DeadLetterHandler func(ctx context.Context, dl DeadLetter)

// Option configures the job manager.
type Option func(*config)

// WithTask registers a task handler using structural typing.
// The task must implement Name() and Handle(ctx, P) methods.
// P cannot be inferred from T, so name it explicitly.
//
//	func (t *GenerateThumbnails) Name() string { return "generate_thumbnails" }
//	func (t *GenerateThumbnails) Handle(ctx context.Context, p ThumbnailPayload) error
//
//	job.WithTask[files.ThumbnailJob](worker.NewThumbnailTask(repo, blobs))
func WithTask[P any, T interface {
	Name() string
	Handle(context.Context, P) error
}](task T) Option {
	return func(c *config) {
		c.registry.register(task.Name(), newTaskWrapper[P, T](task))
	}
}

// WithScheduledTask registers a periodic task.
// Schedule() returns a 5-field cron expression (min hour day month weekday).
func WithScheduledTask[T interface {
	Name() string
	Schedule() string
	Handle(context.Context) error
}](task T) Option {
	return func(c *config) {
		c.schedules = append(c.schedules, scheduleConfig{
			name:     task.Name(),
			schedule: task.Schedule(),
			handler:  task.Handle,
		})
	}
}

// WithQueue configures a named queue with the given number of workers.
//
//	job.WithQueue("thumbnails", 4)
func WithQueue(name string, workers int) Option {
	return func(c *config) {
		if workers > 0 {
			c.queues[name] = workers
		}
	}
}

// WithLogger sets the logger for job processing.
// If not set, a noop logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxWorkers sets the worker count of the default queue. Defaults to 100.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// WithDeadLetterHandler registers a callback for jobs that fail their last attempt.
// The job row itself is kept by River in the discarded state.
func WithDeadLetterHandler(h DeadLetterHandler) Option {
	return func(c *config) {
		c.deadLetter = h
	}
}
