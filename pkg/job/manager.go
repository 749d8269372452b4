package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/robfig/cron/v3"
)

const (
	defaultMaxWorkers = 100
	defaultQueue      = river.QueueDefault
)

// Manager processes jobs on top of River. It embeds Enqueuer, so a worker
// process can also schedule follow-up jobs.
type Manager struct {
	*Enqueuer
	registry *taskRegistry
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
}

// NewManager builds the River client with every registered task and queue.
// Jobs can be enqueued before Start is called.
func NewManager(pool *pgxpool.Pool, opts ...Option) (*Manager, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}

	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.maxWorkers == 0 {
		cfg.maxWorkers = defaultMaxWorkers
	}

	queues := map[string]river.QueueConfig{
		defaultQueue: {MaxWorkers: cfg.maxWorkers},
	}
	for name, workers := range cfg.queues {
		queues[name] = river.QueueConfig{MaxWorkers: workers}
	}

	periodicJobs := make([]*river.PeriodicJob, 0, len(cfg.schedules))
	for _, sched := range cfg.schedules {
		schedule, err := parseCronSchedule(sched.schedule)
		if err != nil {
			return nil, fmt.Errorf("job: invalid cron schedule %q: %w", sched.schedule, err)
		}

		name := sched.name
		periodicJobs = append(periodicJobs, river.NewPeriodicJob(
			schedule,
			func() (river.JobArgs, *river.InsertOpts) {
				return &taskArgs{TaskName: name}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: false},
		))
		cfg.registry.register(name, &scheduledTaskExecutor{handler: sched.handler})
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, newTaskWorker(cfg))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues:       queues,
		Workers:      workers,
		PeriodicJobs: periodicJobs,
		Logger:       cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create client: %w", err)
	}

	return &Manager{
		Enqueuer: &Enqueuer{pool: pool, client: client, logger: cfg.logger},
		registry: cfg.registry,
		logger:   cfg.logger,
	}, nil
}

// Start begins fetching and working jobs.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}
	if err := m.client.Start(ctx); err != nil {
		return fmt.Errorf("job: start client: %w", err)
	}

	m.started = true
	m.logger.Info("job manager started", slog.Any("tasks", m.registry.names()))
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
// Unfinished jobs are redelivered after restart.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}
	if err := m.client.Stop(ctx); err != nil {
		return fmt.Errorf("job: stop client: %w", err)
	}

	m.started = false
	m.logger.Info("job manager stopped")
	return nil
}

// Enqueue rejects task names the manager cannot work.
func (m *Manager) Enqueue(ctx context.Context, name string, payload any, opts ...EnqueueOption) error {
	if _, ok := m.registry.get(name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	return m.Enqueuer.Enqueue(ctx, name, payload, opts...)
}

// EnqueueTx rejects task names the manager cannot work.
func (m *Manager) EnqueueTx(ctx context.Context, tx pgx.Tx, name string, payload any, opts ...EnqueueOption) error {
	if _, ok := m.registry.get(name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	return m.Enqueuer.EnqueueTx(ctx, tx, name, payload, opts...)
}

// Shutdown adapts Stop for shutdown hooks.
func (m *Manager) Shutdown() func(context.Context) error {
	return m.Stop
}

// StartFunc adapts Start for startup hooks.
func (m *Manager) StartFunc() func(context.Context) error {
	return m.Start
}

// taskArgs is the single River job kind. Every task shares it and is
// dispatched by TaskName. Uniqueness is checked on TaskName and UniqueKey
// only, so the key decides which jobs count as equal.
type taskArgs struct {
	TaskName  string          `json:"task_name" river:"unique"`
	UniqueKey string          `json:"unique_key,omitempty" river:"unique"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func (taskArgs) Kind() string { return "filevault:task" }

type taskWorker struct {
	river.WorkerDefaults[taskArgs]
	registry   *taskRegistry
	logger     *slog.Logger
	deadLetter DeadLetterHandler
}

func newTaskWorker(cfg *config) *taskWorker {
	return &taskWorker{
		registry:   cfg.registry,
		logger:     cfg.logger,
		deadLetter: cfg.deadLetter,
	}
}

func (w *taskWorker) Work(ctx context.Context, job *river.Job[taskArgs]) error {
	log := w.logger.With(
		slog.String("task", job.Args.TaskName),
		slog.Int64("job_id", job.ID),
		slog.Int("attempt", job.Attempt),
	)

	executor, ok := w.registry.get(job.Args.TaskName)
	if !ok || executor == nil {
		log.ErrorContext(ctx, "unknown task")
		return Cancel(fmt.Errorf("%w: %s", ErrUnknownTask, job.Args.TaskName))
	}

	log.DebugContext(ctx, "executing task")

	ctx = withAttempt(ctx, job.Attempt, job.MaxAttempts)
	err := executor.Execute(ctx, job.Args.Payload)
	switch {
	case err == nil:
		log.DebugContext(ctx, "task completed")
		return nil
	case IsCancel(err):
		log.WarnContext(ctx, "task cancelled", slog.Any("error", err))
		return err
	case job.Attempt >= job.MaxAttempts:
		log.ErrorContext(ctx, "task dead-lettered",
			slog.Int("max_attempts", job.MaxAttempts),
			slog.Any("error", err),
		)
		if w.deadLetter != nil {
			w.deadLetter(ctx, DeadLetter{
				Task:    job.Args.TaskName,
				Payload: job.Args.Payload,
				JobID:   job.ID,
				Attempt: job.Attempt,
				Err:     err,
			})
		}
		return err
	default:
		log.WarnContext(ctx, "task failed, will retry", slog.Any("error", err))
		return err
	}
}

type cronScheduleAdapter struct {
	schedule cron.Schedule
}

func (a *cronScheduleAdapter) Next(current time.Time) time.Time {
	return a.schedule.Next(current)
}

func parseCronSchedule(expr string) (river.PeriodicSchedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, err
	}
	return &cronScheduleAdapter{schedule: schedule}, nil
}
