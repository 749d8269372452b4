package files

import "errors"

// Validation errors. Each aborts Create before anything is written.
var (
	ErrMissingName        = errors.New("files: missing name")
	ErrMissingKind        = errors.New("files: missing or invalid type")
	ErrMissingData        = errors.New("files: missing data")
	ErrInvalidData        = errors.New("files: data is not valid base64")
	ErrParentNotFound     = errors.New("files: parent not found")
	ErrParentNotFolder    = errors.New("files: parent is not a folder")
	ErrFolderHasNoContent = errors.New("files: a folder has no content")
	ErrInvalidSize        = errors.New("files: invalid size")
)

var (
	// ErrUnauthorized means no caller identity was supplied.
	ErrUnauthorized = errors.New("files: unauthorized")

	// ErrNotFound covers both missing records and records the caller may not
	// see, so private records cannot be probed for.
	ErrNotFound = errors.New("files: not found")

	// ErrBlobIO wraps blob storage failures.
	ErrBlobIO = errors.New("files: blob storage failure")
)
