package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/coldroute-go/internal/adapters/persistence"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/test/helpers"
)

func TestDepotRepository_SaveAndFindRoundtrip(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormDepotRepository(db)
	depot := helpers.CreateTestDepot("depot-1")

	// Act
	err := repo.Save(context.Background(), depot)

	// Assert
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), "depot-1")
	require.NoError(t, err)
	assert.Equal(t, depot.Name, found.Name)
	assert.Equal(t, depot.Location, found.Location)
	assert.Equal(t, 360, found.OpenMinute)
	assert.Equal(t, 1320, found.CloseMinute)
}

func TestDepotRepository_FindDefaultWhenNoneMarked(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormDepotRepository(db)
	require.NoError(t, repo.Save(context.Background(), helpers.CreateTestDepot("depot-1")))

	// Act
	_, err := repo.FindDefault(context.Background())

	// Assert
	var notFound *shared.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDepotRepository_MarkDefaultSwitchesTheFlag(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormDepotRepository(db)
	require.NoError(t, repo.Save(context.Background(), helpers.CreateTestDepot("depot-1")))
	require.NoError(t, repo.Save(context.Background(), helpers.CreateTestDepot("depot-2")))

	// Act
	require.NoError(t, repo.MarkDefault(context.Background(), "depot-2"))

	// Assert
	found, err := repo.FindDefault(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "depot-2", found.ID)

	// Marking another depot moves the flag rather than duplicating it
	require.NoError(t, repo.MarkDefault(context.Background(), "depot-1"))
	found, err = repo.FindDefault(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "depot-1", found.ID)
}

func TestDepotRepository_SaveDoesNotClearDefaultFlag(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormDepotRepository(db)
	depot := helpers.CreateTestDepot("depot-1")
	require.NoError(t, repo.Save(context.Background(), depot))
	require.NoError(t, repo.MarkDefault(context.Background(), "depot-1"))

	// Act
	depot.Name = "Renamed Cold Hub"
	err := repo.Save(context.Background(), depot)

	// Assert
	require.NoError(t, err)

	found, err := repo.FindDefault(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "depot-1", found.ID)
	assert.Equal(t, "Renamed Cold Hub", found.Name)
}

func TestDepotRepository_MarkDefaultMissingDepot(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormDepotRepository(db)

	// Act
	err := repo.MarkDefault(context.Background(), "depot-missing")

	// Assert
	var notFound *shared.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
