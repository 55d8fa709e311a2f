package helpers

import (
	"fmt"

	"github.com/andrescamacho/coldroute-go/internal/domain/depot"
	"github.com/andrescamacho/coldroute-go/internal/domain/driver"
	"github.com/andrescamacho/coldroute-go/internal/domain/fleet"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
)

// Fixture coordinates sit around central Madrid so distances stay in the
// single-digit kilometer range.
const (
	TestDepotLat = 40.4168
	TestDepotLon = -3.7038
)

// CreateTestDepot builds a depot open 06:00-22:00 at the fixture origin
func CreateTestDepot(id string) *depot.Depot {
	return &depot.Depot{
		ID:          id,
		Name:        fmt.Sprintf("Depot %s", id),
		Location:    shared.Coordinate{Latitude: TestDepotLat, Longitude: TestDepotLon},
		OpenMinute:  360,
		CloseMinute: 1320,
	}
}

// CreateTestVehicle builds an AVAILABLE premium reefer with strip curtains.
// Capacity is 1000 kg / 12 m³ and the unit holds -20 °C.
func CreateTestVehicle(id, licensePlate string) *fleet.Vehicle {
	return &fleet.Vehicle{
		ID:                id,
		LicensePlate:      licensePlate,
		MaxWeightKg:       1000,
		MaxVolumeM3:       12,
		Insulation:        fleet.InsulationPremium,
		Door:              fleet.DoorRoll,
		HasStripCurtains:  true,
		CoolingRate:       -2.5,
		MinTempCapability: -20,
		Status:            fleet.VehicleAvailable,
	}
}

// CreateTestShipment builds a PENDING STANDARD shipment with a single
// 09:00-17:00 window, 100 kg / 0.5 m³, ceiling 4 °C, priority 50.
func CreateTestShipment(id string, lat, lon float64) *shipment.Shipment {
	return &shipment.Shipment{
		ID:          id,
		OrderNumber: fmt.Sprintf("ORD-%s", id),
		Location:    shared.Coordinate{Latitude: lat, Longitude: lon},
		Address:     fmt.Sprintf("Calle %s 1", id),
		WeightKg:    100,
		VolumeM3:    0.5,
		Windows: []shipment.TimeWindow{
			{StartMinute: 540, EndMinute: 1020},
		},
		ServiceMinutes: 10,
		TempCeiling:    4.0,
		SLA:            shipment.SLAStandard,
		Priority:       50,
		Status:         shipment.StatusPending,
	}
}

// CreateTestDriver builds a rested driver assigned to the given vehicle
func CreateTestDriver(id, vehicleID string) *driver.Driver {
	return &driver.Driver{
		ID:        id,
		Name:      fmt.Sprintf("Driver %s", id),
		VehicleID: vehicleID,
	}
}
