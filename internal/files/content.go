package files

import (
	"context"
	"errors"
	"io"
	"slices"
	"strconv"

	"github.com/dmitrymomot/filevault/pkg/storage"
)

// Content is an open blob ready to be streamed. The caller closes it.
type Content struct {
	io.ReadCloser
	ContentType string
	Name        string
}

// Content opens the blob of a record, or one of its thumbnails when size is
// set. viewer may be empty for anonymous callers.
//
// Checks run in a fixed order so a private record looks exactly like a
// missing one: lookup, read access, folder, size, blob.
func (s *Service) Content(ctx context.Context, viewer, id, size string) (*Content, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanRead(rec, viewer); err != nil {
		return nil, err
	}
	if !rec.Kind.HasBlob() {
		return nil, ErrFolderHasNoContent
	}

	key, err := s.variantKey(rec.BlobPath, size)
	if err != nil {
		return nil, err
	}

	r, err := s.blobs.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrBlobIO, err)
	}

	ct := storage.ContentTypeFromName(rec.Name)
	if size != "" {
		ct = VariantContentType(ct)
	}

	return &Content{
		ReadCloser:  r,
		ContentType: ct,
		Name:        rec.Name,
	}, nil
}

// VariantContentType is the format thumbnails are encoded in: JPEG sources
// stay JPEG, everything else becomes PNG.
func VariantContentType(sourceType string) string {
	if sourceType == "image/jpeg" {
		return "image/jpeg"
	}
	return "image/png"
}

func (s *Service) variantKey(blobPath, size string) (string, error) {
	if size == "" {
		return blobPath, nil
	}
	width, err := strconv.Atoi(size)
	if err != nil || !slices.Contains(s.widths, width) {
		return "", ErrInvalidSize
	}
	return VariantPath(blobPath, width), nil
}
