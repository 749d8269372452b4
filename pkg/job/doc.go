// Package job runs background tasks on River, a Postgres-native queue.
//
// Every task is stored under one River job kind and dispatched by name,
// with a JSON payload decoded into the task's own payload type:
//
//	type ThumbnailTask struct{ ... }
//
//	func (t *ThumbnailTask) Name() string { return "generate_thumbnails" }
//	func (t *ThumbnailTask) Handle(ctx context.Context, p ThumbnailPayload) error
//
//	m, err := job.NewManager(pool,
//		job.WithTask[ThumbnailPayload](task),
//		job.WithScheduledTask(sweep),
//		job.WithQueue("thumbnails", 4),
//		job.WithDeadLetterHandler(onDeadLetter),
//		job.WithLogger(log),
//	)
//
// # Delivery
//
// Jobs are delivered at least once. A handler error schedules a retry with
// River's backoff until MaxAttempts is reached. The last failure discards
// the job and calls the [DeadLetterHandler]. Return [Cancel] for failures
// that retrying cannot fix, such as a record that no longer exists. A
// cancelled job is finalized immediately and is not dead-lettered.
// Handlers must therefore be idempotent.
//
// # Enqueueing
//
// Processes that only produce work use [Enqueuer]:
//
//	e, _ := job.NewEnqueuer(pool, log)
//	err := e.Enqueue(ctx, "generate_thumbnails", payload,
//		job.InQueue("thumbnails"),
//		job.MaxAttempts(5),
//	)
//
// River's tables must exist before either type is used. They are created by
// the migrate command together with the application schema.
package job
