package fleet

import "context"

// VehicleRepository defines vehicle persistence operations
type VehicleRepository interface {
	FindByID(ctx context.Context, id string) (*Vehicle, error)

	// FindAvailable returns the fleet snapshot eligible for a plan run
	FindAvailable(ctx context.Context) ([]*Vehicle, error)

	// FindByIDs reloads a previously captured snapshot
	FindByIDs(ctx context.Context, ids []string) ([]*Vehicle, error)

	Save(ctx context.Context, vehicle *Vehicle) error
}
