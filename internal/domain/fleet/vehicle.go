package fleet

import (
	"fmt"

	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// InsulationGrade classifies a vehicle's cargo-box insulation. The grade
// determines the heat transfer coefficient (K-value) used by the
// thermodynamic model.
type InsulationGrade string

const (
	InsulationPremium  InsulationGrade = "PREMIUM"  // K = 0.02
	InsulationStandard InsulationGrade = "STANDARD" // K = 0.05
	InsulationBasic    InsulationGrade = "BASIC"    // K = 0.10
)

// KValue returns the heat transfer coefficient for this grade.
// Calibrated for travel time expressed in hours.
func (g InsulationGrade) KValue() float64 {
	switch g {
	case InsulationPremium:
		return 0.02
	case InsulationStandard:
		return 0.05
	case InsulationBasic:
		return 0.10
	default:
		return 0.05
	}
}

// DoorType classifies the cargo door, which drives heat ingress while the
// door is open during service.
type DoorType string

const (
	DoorRoll  DoorType = "ROLL"  // C = 0.8
	DoorSwing DoorType = "SWING" // C = 1.2
)

// Coefficient returns the door heat-ingress coefficient.
// Calibrated for service time expressed in hours.
func (d DoorType) Coefficient() float64 {
	switch d {
	case DoorRoll:
		return 0.8
	case DoorSwing:
		return 1.2
	default:
		return 1.2
	}
}

// VehicleStatus is the fleet availability state
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "AVAILABLE"
	VehicleInUse       VehicleStatus = "IN_USE"
	VehicleMaintenance VehicleStatus = "MAINTENANCE"
	VehicleOffline     VehicleStatus = "OFFLINE"
)

// Vehicle is a refrigerated truck in the fleet. A plan run works on an
// immutable snapshot of available vehicles, so the entity carries no
// telemetry; it is the static capacity and thermal profile.
type Vehicle struct {
	ID           string
	LicensePlate string

	MaxWeightKg float64
	MaxVolumeM3 float64

	Insulation       InsulationGrade
	Door             DoorType
	HasStripCurtains bool

	// CoolingRate is the active-refrigeration temperature change in degrees
	// per hour of driving, negative while the unit is cooling.
	CoolingRate float64

	// MinTempCapability is the lowest cargo temperature the unit can hold
	MinTempCapability float64

	Status   VehicleStatus
	DriverID string
}

// NewVehicle creates a vehicle snapshot entry with validation
func NewVehicle(id, licensePlate string, maxWeightKg, maxVolumeM3 float64, insulation InsulationGrade, door DoorType) (*Vehicle, error) {
	if id == "" {
		return nil, shared.NewValidationError("vehicle_id", "cannot be empty")
	}
	if maxWeightKg <= 0 {
		return nil, shared.NewValidationError("max_weight_kg", fmt.Sprintf("must be positive, got %v", maxWeightKg))
	}
	if maxVolumeM3 <= 0 {
		return nil, shared.NewValidationError("max_volume_m3", fmt.Sprintf("must be positive, got %v", maxVolumeM3))
	}

	return &Vehicle{
		ID:           id,
		LicensePlate: licensePlate,
		MaxWeightKg:  maxWeightKg,
		MaxVolumeM3:  maxVolumeM3,
		Insulation:   insulation,
		Door:         door,
		CoolingRate:  -2.5,
		Status:       VehicleAvailable,
	}, nil
}

// IsAvailable reports whether the vehicle can be included in a plan snapshot
func (v *Vehicle) IsAvailable() bool {
	return v.Status == VehicleAvailable
}

// Thermodynamic contributions. All three convert minutes to hours before
// applying the coefficient; the coefficients are calibrated for hours and
// feeding minutes in directly produces order-of-magnitude errors.

// TransitTempRise returns the cargo temperature rise over a driving leg
func (v *Vehicle) TransitTempRise(travelMinutes, ambientTemp, currentTemp float64) float64 {
	travelHours := travelMinutes / 60.0
	return travelHours * (ambientTemp - currentTemp) * v.Insulation.KValue()
}

// DoorTempRise returns the temperature rise across a service stop with the
// door open. A strip curtain halves the ingress.
func (v *Vehicle) DoorTempRise(serviceMinutes float64) float64 {
	serviceHours := serviceMinutes / 60.0
	curtainFactor := 1.0
	if v.HasStripCurtains {
		curtainFactor = 0.5
	}
	return serviceHours * v.Door.Coefficient() * curtainFactor
}

// CoolingEffect returns the refrigeration contribution over a driving leg,
// zero or negative.
func (v *Vehicle) CoolingEffect(travelMinutes float64) float64 {
	travelHours := travelMinutes / 60.0
	return travelHours * v.CoolingRate
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("Vehicle(%s %s)", v.ID, v.LicensePlate)
}
