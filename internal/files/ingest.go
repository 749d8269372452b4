package files

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/filevault/pkg/storage"
)

// CreateInput is the createFile request body.
type CreateInput struct {
	Name     string    `json:"name"`
	Type     Kind      `json:"type"`
	ParentID ParentRef `json:"parentId"`
	IsPublic bool      `json:"isPublic"`
	Data     string    `json:"data"`
}

// Create validates in, stores its payload and persists the record.
// Nothing is persisted unless every check passes. The blob is written first;
// if the insert then fails the blob is removed again.
func (s *Service) Create(ctx context.Context, owner string, in CreateInput) (View, error) {
	if owner == "" {
		return View{}, ErrUnauthorized
	}

	payload, err := validateInput(in)
	if err != nil {
		return View{}, err
	}

	if err := ValidateParent(ctx, s.repo, owner, in.ParentID); err != nil {
		return View{}, err
	}

	rec := Record{
		OwnerID:  owner,
		Name:     in.Name,
		Kind:     in.Type,
		IsPublic: in.IsPublic,
		Parent:   in.ParentID,
	}

	if rec.Kind.HasBlob() {
		key := uuid.NewString()
		_, err := s.blobs.Put(ctx, bytes.NewReader(payload), int64(len(payload)),
			storage.WithKey(key),
			storage.WithContentType(storage.ContentTypeFromName(in.Name)),
		)
		if err != nil {
			return View{}, errors.Join(ErrBlobIO, err)
		}
		rec.BlobPath = key
	}

	created, err := s.repo.Insert(ctx, rec)
	if err != nil {
		s.discardBlob(ctx, rec.BlobPath)
		return View{}, err
	}

	s.metrics.FileCreated(string(created.Kind))
	s.logger.InfoContext(ctx, "file created",
		slog.String("file_id", created.ID),
		slog.String("kind", string(created.Kind)),
	)

	if created.Kind == KindImage {
		s.enqueueThumbnail(ctx, created)
	}

	return created.View(true), nil
}

// validateInput applies the field checks in order and decodes the payload.
func validateInput(in CreateInput) ([]byte, error) {
	if in.Name == "" {
		return nil, ErrMissingName
	}
	if !in.Type.Valid() {
		return nil, ErrMissingKind
	}
	if !in.Type.HasBlob() {
		return nil, nil
	}
	if in.Data == "" {
		return nil, ErrMissingData
	}

	payload, err := decodeBase64(in.Data)
	if err != nil {
		return nil, errors.Join(ErrInvalidData, err)
	}
	return payload, nil
}

// decodeBase64 accepts padded and unpadded standard encoding, ignoring line breaks.
func decodeBase64(s string) ([]byte, error) {
	s = strings.NewReplacer("\r", "", "\n", "").Replace(s)
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

func (s *Service) discardBlob(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.WarnContext(ctx, "failed to remove orphaned blob",
			slog.String("blob_path", key),
			slog.Any("error", err),
		)
	}
}

// enqueueThumbnail is best effort: the record already exists and stays.
func (s *Service) enqueueThumbnail(ctx context.Context, rec Record) {
	if s.queue == nil {
		return
	}
	job := ThumbnailJob{FileID: rec.ID, OwnerID: rec.OwnerID}
	if err := s.queue.EnqueueThumbnail(ctx, job); err != nil {
		s.metrics.ThumbnailEnqueueFailed()
		s.logger.ErrorContext(ctx, "failed to enqueue thumbnail job",
			slog.String("file_id", rec.ID),
			slog.Any("error", err),
		)
	}
}
