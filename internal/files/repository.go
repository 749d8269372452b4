package files

import "context"

// PageSize is the number of records per listing page.
const PageSize = 20

// ListQuery selects one page of a folder's children.
type ListQuery struct {
	OwnerID string
	Parent  ParentRef
	Offset  int
	Limit   int
}

// Repository is the metadata store.
// Lookups of unknown or malformed ids return ErrNotFound.
type Repository interface {
	// Insert persists rec and returns it with ID and CreatedAt assigned.
	Insert(ctx context.Context, rec Record) (Record, error)

	FindByID(ctx context.Context, id string) (Record, error)

	// List returns the owner's records under q.Parent in creation order.
	// The root matches only root-parented records.
	List(ctx context.Context, q ListQuery) ([]Record, error)

	// SetPublic updates visibility of a record owned by ownerID in one statement
	// and returns the updated record.
	SetPublic(ctx context.Context, ownerID, id string, public bool) (Record, error)
}

// ThumbnailJob asks the worker to generate variants for an image record.
type ThumbnailJob struct {
	FileID  string `json:"file_id"`
	OwnerID string `json:"owner_id"`
}

// ThumbnailQueue hands thumbnail jobs to the background worker.
type ThumbnailQueue interface {
	EnqueueThumbnail(ctx context.Context, job ThumbnailJob) error
}
