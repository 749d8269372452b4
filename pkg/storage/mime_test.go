package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/filevault/pkg/storage"
)

func TestContentTypeFromName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"cat.png", "image/png"},
		{"CAT.JPG", "image/jpeg"},
		{"notes.txt", "text/plain; charset=utf-8"},
		{"report.pdf", "application/pdf"},
		{"archive", storage.MIMEOctetStream},
		{"weird.zzzunknown", storage.MIMEOctetStream},
		{"", storage.MIMEOctetStream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, storage.ContentTypeFromName(tt.name))
		})
	}
}

func TestIsImageMIME(t *testing.T) {
	t.Parallel()

	assert.True(t, storage.IsImageMIME("image/png"))
	assert.True(t, storage.IsImageMIME("IMAGE/JPEG; q=1"))
	assert.False(t, storage.IsImageMIME("text/plain"))
	assert.False(t, storage.IsImageMIME(""))
}
