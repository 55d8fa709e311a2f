package fleet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/coldroute-go/internal/domain/fleet"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

func TestInsulationGrade_KValue(t *testing.T) {
	assert.Equal(t, 0.02, fleet.InsulationPremium.KValue())
	assert.Equal(t, 0.05, fleet.InsulationStandard.KValue())
	assert.Equal(t, 0.10, fleet.InsulationBasic.KValue())

	// Unknown grades fall back to the standard coefficient
	assert.Equal(t, 0.05, fleet.InsulationGrade("UNKNOWN").KValue())
}

func TestDoorType_Coefficient(t *testing.T) {
	assert.Equal(t, 0.8, fleet.DoorRoll.Coefficient())
	assert.Equal(t, 1.2, fleet.DoorSwing.Coefficient())
	assert.Equal(t, 1.2, fleet.DoorType("UNKNOWN").Coefficient())
}

func TestNewVehicle(t *testing.T) {
	// Act
	vehicle, err := fleet.NewVehicle("VH-1", "1234 ABC", 1200, 14, fleet.InsulationStandard, fleet.DoorRoll)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, fleet.VehicleAvailable, vehicle.Status)
	assert.True(t, vehicle.IsAvailable())
	assert.Equal(t, -2.5, vehicle.CoolingRate)
	assert.False(t, vehicle.HasStripCurtains)
}

func TestNewVehicle_Validation(t *testing.T) {
	cases := []struct {
		name     string
		id       string
		weightKg float64
		volumeM3 float64
	}{
		{"empty id", "", 1000, 12},
		{"zero weight", "VH-1", 0, 12},
		{"zero volume", "VH-1", 1000, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fleet.NewVehicle(tc.id, "1234 ABC", tc.weightKg, tc.volumeM3, fleet.InsulationStandard, fleet.DoorRoll)

			var validationErr *shared.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestVehicle_TransitTempRise(t *testing.T) {
	// Arrange
	vehicle, err := fleet.NewVehicle("VH-1", "1234 ABC", 1000, 12, fleet.InsulationStandard, fleet.DoorRoll)
	require.NoError(t, err)

	// Act - one hour at 30 above cargo temperature
	rise := vehicle.TransitTempRise(60, 30, 0)

	// Assert - 1h * 30 * 0.05
	assert.InDelta(t, 1.5, rise, 1e-9)

	// Warm cargo above ambient loses heat instead
	assert.InDelta(t, -0.25, vehicle.TransitTempRise(60, 20, 25), 1e-9)
}

func TestVehicle_DoorTempRise(t *testing.T) {
	// Arrange
	vehicle, err := fleet.NewVehicle("VH-1", "1234 ABC", 1000, 12, fleet.InsulationBasic, fleet.DoorSwing)
	require.NoError(t, err)

	// Act - 30 minutes of open swing door
	rise := vehicle.DoorTempRise(30)

	// Assert - 0.5h * 1.2
	assert.InDelta(t, 0.6, rise, 1e-9)

	// Strip curtains halve the ingress
	vehicle.HasStripCurtains = true
	assert.InDelta(t, 0.3, vehicle.DoorTempRise(30), 1e-9)
}

func TestVehicle_CoolingEffect(t *testing.T) {
	// Arrange
	vehicle, err := fleet.NewVehicle("VH-1", "1234 ABC", 1000, 12, fleet.InsulationPremium, fleet.DoorRoll)
	require.NoError(t, err)

	// Act / Assert - default -2.5 per hour
	assert.InDelta(t, -2.5, vehicle.CoolingEffect(60), 1e-9)
	assert.InDelta(t, -1.25, vehicle.CoolingEffect(30), 1e-9)
	assert.Zero(t, vehicle.CoolingEffect(0))
}
