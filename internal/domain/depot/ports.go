package depot

import "context"

// DepotRepository defines depot persistence operations
type DepotRepository interface {
	FindByID(ctx context.Context, id string) (*Depot, error)

	// FindDefault returns the configured default depot, used when a plan
	// request names coordinates instead of a depot id.
	FindDefault(ctx context.Context) (*Depot, error)

	Save(ctx context.Context, depot *Depot) error
}
