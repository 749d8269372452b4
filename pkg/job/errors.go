package job

import "errors"

var (
	// ErrUnknownTask is returned when a job names a task that was never registered.
	ErrUnknownTask = errors.New("job: unknown task")

	// ErrInvalidPayload is returned when a payload cannot be decoded into
	// the task's payload type. Such jobs are cancelled rather than retried.
	ErrInvalidPayload = errors.New("job: invalid payload")

	// ErrAlreadyStarted is returned by Start on a running manager.
	ErrAlreadyStarted = errors.New("job: already started")

	// ErrNotStarted is returned by Stop on a manager that is not running.
	ErrNotStarted = errors.New("job: not started")

	// ErrPoolRequired is returned when no database pool is supplied.
	ErrPoolRequired = errors.New("job: pool is required")

	// ErrHealthcheckFailed wraps every failure reported by Healthcheck.
	ErrHealthcheckFailed = errors.New("job: healthcheck failed")
)
