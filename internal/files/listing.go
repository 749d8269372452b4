package files

import "context"

// List returns one page of the owner's records under parent, in creation order.
// Negative pages are treated as the first page; pages past the end are empty.
func (s *Service) List(ctx context.Context, owner string, parent ParentRef, page int) ([]View, error) {
	if owner == "" {
		return nil, ErrUnauthorized
	}

	recs, err := s.repo.List(ctx, ListQuery{
		OwnerID: owner,
		Parent:  parent,
		Offset:  max(page, 0) * PageSize,
		Limit:   PageSize,
	})
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(recs))
	for _, rec := range recs {
		views = append(views, rec.View(false))
	}
	return views, nil
}

// Get returns a record owned by the caller. Other users' records are not
// found, public or not.
func (s *Service) Get(ctx context.Context, owner, id string) (View, error) {
	if owner == "" {
		return View{}, ErrUnauthorized
	}

	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return View{}, err
	}
	if rec.OwnerID != owner {
		return View{}, ErrNotFound
	}
	return rec.View(false), nil
}
