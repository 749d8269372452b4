package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"
)

type mockAPIError struct {
	code string
}

func (e *mockAPIError) ErrorCode() string             { return e.code }
func (e *mockAPIError) ErrorMessage() string          { return "mock" }
func (e *mockAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultUnknown }
func (e *mockAPIError) Error() string                 { return fmt.Sprintf("%s: mock", e.code) }

func TestWrapS3Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want error
		name string
	}{
		{name: "NoSuchKey code", err: &mockAPIError{code: "NoSuchKey"}, want: ErrNotFound},
		{name: "NotFound code", err: &mockAPIError{code: "NotFound"}, want: ErrNotFound},
		{name: "AccessDenied code", err: &mockAPIError{code: "AccessDenied"}, want: ErrAccessDenied},
		{name: "Forbidden code", err: &mockAPIError{code: "Forbidden"}, want: ErrAccessDenied},
		{name: "typed NoSuchKey", err: &types.NoSuchKey{}, want: ErrNotFound},
		{name: "unknown code", err: &mockAPIError{code: "SlowDown"}, want: ErrUploadFailed},
		{name: "plain error", err: errors.New("dial tcp"), want: ErrUploadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, wrapS3Error(tt.err, ErrUploadFailed), tt.want)
		})
	}
}
