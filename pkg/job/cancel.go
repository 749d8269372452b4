package job

import (
	"context"
	"errors"

	"github.com/riverqueue/river"
)

// cancelError marks a failure that retrying cannot fix.
// Unwrap exposes River's cancel marker so the job is discarded immediately.
type cancelError struct {
	cause  error
	marker error
}

func (e *cancelError) Error() string { return "job: cancelled: " + e.cause.Error() }

func (e *cancelError) Unwrap() []error { return []error{e.marker, e.cause} }

// Cancel wraps err so the job is finalized without further attempts and
// without reaching the dead-letter handler.
//
//	if errors.Is(err, files.ErrNotFound) {
//		return job.Cancel(err)
//	}
func Cancel(err error) error {
	if err == nil {
		err = errors.New("cancelled")
	}
	return &cancelError{cause: err, marker: river.JobCancel(err)}
}

// IsCancel reports whether err was produced by Cancel.
func IsCancel(err error) bool {
	var ce *cancelError
	return errors.As(err, &ce)
}

type attemptKey struct{}

type attemptInfo struct {
	attempt int
	max     int
}

func withAttempt(ctx context.Context, attempt, maxAttempts int) context.Context {
	return context.WithValue(ctx, attemptKey{}, attemptInfo{attempt: attempt, max: maxAttempts})
}

// Attempt returns the current attempt number (starting at 1) and the
// maximum number of attempts for the job being executed.
// Both are zero outside of a worker.
func Attempt(ctx context.Context) (attempt, maxAttempts int) {
	info, _ := ctx.Value(attemptKey{}).(attemptInfo)
	return info.attempt, info.max
}
