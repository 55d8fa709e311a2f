package shipment

import "context"

// ShipmentRepository defines shipment persistence operations
type ShipmentRepository interface {
	FindByID(ctx context.Context, id string) (*Shipment, error)

	// FindPending returns the PENDING shipments eligible for a plan run
	FindPending(ctx context.Context) ([]*Shipment, error)

	// FindByIDs reloads a previously captured snapshot
	FindByIDs(ctx context.Context, ids []string) ([]*Shipment, error)

	Save(ctx context.Context, shipment *Shipment) error
}
