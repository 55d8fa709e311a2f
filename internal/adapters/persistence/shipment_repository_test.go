package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/coldroute-go/internal/adapters/persistence"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
	"github.com/andrescamacho/coldroute-go/test/helpers"
)

func TestShipmentRepository_SaveAndFindRoundtrip(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormShipmentRepository(db)

	floor := -2.0
	s := helpers.CreateTestShipment("shp-1", 40.42, -3.70)
	s.Windows = []shipment.TimeWindow{
		{StartMinute: 540, EndMinute: 660},
		{StartMinute: 900, EndMinute: 1020},
	}
	s.TempFloor = &floor
	s.SLA = shipment.SLAStrict

	// Act
	err := repo.Save(context.Background(), s)
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), "shp-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, s.OrderNumber, found.OrderNumber)
	assert.Equal(t, s.Location.Latitude, found.Location.Latitude)
	assert.Equal(t, s.Location.Longitude, found.Location.Longitude)
	assert.Equal(t, s.Windows, found.Windows)
	require.NotNil(t, found.TempFloor)
	assert.Equal(t, floor, *found.TempFloor)
	assert.Equal(t, shipment.SLAStrict, found.SLA)
	assert.Equal(t, shipment.StatusPending, found.Status)
}

func TestShipmentRepository_FindPendingSkipsAssigned(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormShipmentRepository(db)

	pending := helpers.CreateTestShipment("shp-b", 40.42, -3.70)
	assigned := helpers.CreateTestShipment("shp-a", 40.43, -3.71)
	require.NoError(t, assigned.Assign("route-1", 1))

	require.NoError(t, repo.Save(context.Background(), pending))
	require.NoError(t, repo.Save(context.Background(), assigned))

	// Act
	found, err := repo.FindPending(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "shp-b", found[0].ID)
}

func TestShipmentRepository_FindByIDsReturnsOrderedSubset(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormShipmentRepository(db)

	for _, id := range []string{"shp-3", "shp-1", "shp-2"} {
		require.NoError(t, repo.Save(context.Background(), helpers.CreateTestShipment(id, 40.42, -3.70)))
	}

	// Act
	found, err := repo.FindByIDs(context.Background(), []string{"shp-2", "shp-1"})

	// Assert
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "shp-1", found[0].ID)
	assert.Equal(t, "shp-2", found[1].ID)
}

func TestShipmentRepository_SavePersistsAssignment(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormShipmentRepository(db)

	s := helpers.CreateTestShipment("shp-1", 40.42, -3.70)
	require.NoError(t, repo.Save(context.Background(), s))

	require.NoError(t, s.Assign("route-7", 3))

	// Act
	require.NoError(t, repo.Save(context.Background(), s))
	found, err := repo.FindByID(context.Background(), "shp-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, shipment.StatusAssigned, found.Status)
	assert.Equal(t, "route-7", found.RouteID)
	assert.Equal(t, 3, found.RouteSequence)
}
