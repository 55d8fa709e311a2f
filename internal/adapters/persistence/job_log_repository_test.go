package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/coldroute-go/internal/adapters/persistence"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/test/helpers"
)

func TestJobLogRepository_AppendAndReadOldestFirst(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	repo := persistence.NewGormJobLogRepository(db, clock)

	require.NoError(t, repo.Append(context.Background(), "job-1", "INFO", "job started"))
	clock.Advance(5 * time.Second)
	require.NoError(t, repo.Append(context.Background(), "job-1", "INFO", "solver running"))
	clock.Advance(5 * time.Second)
	require.NoError(t, repo.Append(context.Background(), "job-1", "WARN", "2 shipments screened out"))

	// Act
	entries, err := repo.FindByJobID(context.Background(), "job-1", 0)

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "job started", entries[0].Message)
	assert.Equal(t, "solver running", entries[1].Message)
	assert.Equal(t, "2 shipments screened out", entries[2].Message)
	assert.Equal(t, "WARN", entries[2].Level)
	assert.True(t, entries[0].CreatedAt.Before(entries[2].CreatedAt))
}

func TestJobLogRepository_LimitReturnsOldestEntries(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormJobLogRepository(db, nil)
	require.NoError(t, repo.Append(context.Background(), "job-1", "INFO", "first"))
	require.NoError(t, repo.Append(context.Background(), "job-1", "INFO", "second"))
	require.NoError(t, repo.Append(context.Background(), "job-1", "INFO", "third"))

	// Act
	entries, err := repo.FindByJobID(context.Background(), "job-1", 2)

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Message)
	assert.Equal(t, "second", entries[1].Message)
}

func TestJobLogRepository_FiltersByJob(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormJobLogRepository(db, nil)
	require.NoError(t, repo.Append(context.Background(), "job-a", "INFO", "a only"))
	require.NoError(t, repo.Append(context.Background(), "job-b", "INFO", "b only"))

	// Act
	entries, err := repo.FindByJobID(context.Background(), "job-a", 0)

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a only", entries[0].Message)
	assert.Equal(t, "job-a", entries[0].JobID)
}
