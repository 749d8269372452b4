package storage

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

var (
	ErrInvalidConfig = errors.New("storage: invalid configuration")
	ErrInvalidKey    = errors.New("storage: invalid key")
	ErrNotFound      = errors.New("storage: file not found")
	ErrAccessDenied  = errors.New("storage: access denied")
	ErrSizeMismatch  = errors.New("storage: size mismatch")
	ErrUploadFailed  = errors.New("storage: upload failed")
	ErrReadFailed    = errors.New("storage: read failed")
	ErrDeleteFailed  = errors.New("storage: delete failed")
	ErrUnavailable   = errors.New("storage: backend unavailable")
)

// wrapS3Error maps S3 failures onto sentinels.
// The AWS error is formatted with %v, so callers match sentinels with
// errors.Is and never depend on SDK types.
func wrapS3Error(err error, fallback error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}

	var notFound *types.NoSuchKey
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return fmt.Errorf("%w: %v", fallback, err)
}
