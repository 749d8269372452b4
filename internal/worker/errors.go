package worker

import "errors"

var (
	ErrMissingFileID = errors.New("worker: thumbnail job has no file id")
	ErrNotImage      = errors.New("worker: record is not an image")
	ErrDecode        = errors.New("worker: failed to decode image")
	ErrTooLarge      = errors.New("worker: image exceeds the pixel limit")
	ErrEncode        = errors.New("worker: failed to encode thumbnail")
)
