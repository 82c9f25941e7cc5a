package resumes

import "context"

// Repo persists resume records. Create assigns ID and CreatedAt.
type Repo interface {
	Create(ctx context.Context, rec Record) (Record, error)
	GetByID(ctx context.Context, id int64) (Record, error)
	// List returns records newest first.
	List(ctx context.Context, limit, offset int) ([]Record, error)
}
