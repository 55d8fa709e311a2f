package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/coldroute-go/internal/adapters/persistence"
	"github.com/andrescamacho/coldroute-go/internal/domain/fleet"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/test/helpers"
)

func TestVehicleRepository_SaveAndFindRoundtrip(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormVehicleRepository(db)
	veh := helpers.CreateTestVehicle("veh-1", "1234 ABC")
	veh.Insulation = fleet.InsulationStandard
	veh.Door = fleet.DoorSwing
	veh.CoolingRate = -1.5
	veh.DriverID = "drv-1"

	// Act
	err := repo.Save(context.Background(), veh)

	// Assert
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), "veh-1")
	require.NoError(t, err)
	assert.Equal(t, "1234 ABC", found.LicensePlate)
	assert.Equal(t, fleet.InsulationStandard, found.Insulation)
	assert.Equal(t, fleet.DoorSwing, found.Door)
	assert.True(t, found.HasStripCurtains)
	assert.Equal(t, -1.5, found.CoolingRate)
	assert.Equal(t, "drv-1", found.DriverID)
}

func TestVehicleRepository_FindByIDMissing(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormVehicleRepository(db)

	// Act
	_, err := repo.FindByID(context.Background(), "veh-missing")

	// Assert
	var notFound *shared.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestVehicleRepository_FindAvailableFiltersAndOrders(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormVehicleRepository(db)

	inShop := helpers.CreateTestVehicle("veh-2", "2222 BBB")
	inShop.Status = fleet.VehicleMaintenance
	require.NoError(t, repo.Save(context.Background(), helpers.CreateTestVehicle("veh-3", "3333 CCC")))
	require.NoError(t, repo.Save(context.Background(), inShop))
	require.NoError(t, repo.Save(context.Background(), helpers.CreateTestVehicle("veh-1", "1111 AAA")))

	// Act
	available, err := repo.FindAvailable(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, "veh-1", available[0].ID)
	assert.Equal(t, "veh-3", available[1].ID)
}

func TestVehicleRepository_FindByIDsReloadsSnapshot(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormVehicleRepository(db)
	for _, id := range []string{"veh-1", "veh-2", "veh-3"} {
		require.NoError(t, repo.Save(context.Background(), helpers.CreateTestVehicle(id, id)))
	}

	// Act
	vehicles, err := repo.FindByIDs(context.Background(), []string{"veh-3", "veh-1"})

	// Assert
	require.NoError(t, err)
	require.Len(t, vehicles, 2)
	assert.Equal(t, "veh-1", vehicles[0].ID)
	assert.Equal(t, "veh-3", vehicles[1].ID)

	empty, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
