package files

import (
	"context"
	"log/slog"
)

// Publish makes a record publicly readable. Publishing twice is a no-op.
func (s *Service) Publish(ctx context.Context, owner, id string) (View, error) {
	return s.SetVisibility(ctx, owner, id, true)
}

// Unpublish makes a record private again. Unpublishing twice is a no-op.
func (s *Service) Unpublish(ctx context.Context, owner, id string) (View, error) {
	return s.SetVisibility(ctx, owner, id, false)
}

// SetVisibility sets IsPublic on a record owned by owner.
func (s *Service) SetVisibility(ctx context.Context, owner, id string, public bool) (View, error) {
	if owner == "" {
		return View{}, ErrUnauthorized
	}

	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return View{}, err
	}
	if err := CanWrite(rec, owner); err != nil {
		return View{}, err
	}

	updated, err := s.repo.SetPublic(ctx, owner, id, public)
	if err != nil {
		return View{}, err
	}

	s.logger.InfoContext(ctx, "visibility changed",
		slog.String("file_id", id),
		slog.Bool("public", public),
	)
	return updated.View(true), nil
}
