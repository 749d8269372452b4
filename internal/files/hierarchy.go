package files

import (
	"context"
	"errors"
)

// ValidateParent checks that parent can hold a new record of owner.
// The root always passes without a lookup. A folder owned by someone else
// is reported as not found.
func ValidateParent(ctx context.Context, repo Repository, owner string, parent ParentRef) error {
	if parent.IsRoot() {
		return nil
	}

	rec, err := repo.FindByID(ctx, parent.ID())
	if errors.Is(err, ErrNotFound) {
		return ErrParentNotFound
	}
	if err != nil {
		return err
	}

	if rec.OwnerID != owner {
		return ErrParentNotFound
	}
	if rec.Kind != KindFolder {
		return ErrParentNotFolder
	}
	return nil
}
