package driver

import "context"

// DriverRepository defines driver persistence operations
type DriverRepository interface {
	FindByID(ctx context.Context, id string) (*Driver, error)

	// FindByVehicleIDs returns the drivers attached to the given vehicles,
	// keyed by vehicle id. Vehicles without a driver are absent from the map.
	FindByVehicleIDs(ctx context.Context, vehicleIDs []string) (map[string]*Driver, error)

	Save(ctx context.Context, driver *Driver) error
}

// LaborLogRepository persists planned labor bookings
type LaborLogRepository interface {
	SaveAll(ctx context.Context, logs []*LaborLog) error
	FindByRouteID(ctx context.Context, routeID string) ([]*LaborLog, error)
}
