package planning_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

func TestRouteCode(t *testing.T) {
	planDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	// Plate is uppercased and de-spaced, job id truncated to 8 chars
	code := planning.RouteCode(planDate, "1234 abc", "f47ac10b-58cc-4372-a567-0e02b2c3d479")
	assert.Equal(t, "R-20250701-1234ABC-f47ac10b", code)

	// Short job ids pass through untouched
	code = planning.RouteCode(planDate, "5678DEF", "job-1")
	assert.Equal(t, "R-20250701-5678DEF-job-1", code)
}

func TestNewRoute(t *testing.T) {
	// Arrange
	planDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	// Act
	route, err := planning.NewRoute("route-1", "job-1", "VH-1", "DRV-7", "DEPOT-MAD", planDate, "1234 ABC")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "R-20250701-1234ABC-job-1", route.Code)
	assert.Equal(t, planning.RouteStatusScheduled, route.Status)
	assert.Equal(t, 1, route.Version)
	assert.True(t, route.IsFeasible)
	assert.Zero(t, route.StopCount())
}

func TestNewRoute_Validation(t *testing.T) {
	planDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		id        string
		jobID     string
		vehicleID string
	}{
		{"missing id", "", "job-1", "VH-1"},
		{"missing job", "route-1", "", "VH-1"},
		{"missing vehicle", "route-1", "job-1", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := planning.NewRoute(tc.id, tc.jobID, tc.vehicleID, "", "DEPOT-MAD", planDate, "1234 ABC")

			var validationErr *shared.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestRoute_StatusTransitions(t *testing.T) {
	// Arrange
	planDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	route, err := planning.NewRoute("route-1", "job-1", "VH-1", "", "DEPOT-MAD", planDate, "1234ABC")
	require.NoError(t, err)

	// Act / Assert - scheduled -> in progress -> completed
	require.NoError(t, route.Start())
	assert.Equal(t, planning.RouteStatusInProgress, route.Status)

	require.NoError(t, route.Complete())
	assert.Equal(t, planning.RouteStatusCompleted, route.Status)

	// Completed routes are immutable
	var preconditionErr *shared.PreconditionFailureError
	assert.ErrorAs(t, route.Start(), &preconditionErr)
	assert.ErrorAs(t, route.Abort(), &preconditionErr)
}

func TestRoute_CannotCompleteBeforeStart(t *testing.T) {
	planDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	route, err := planning.NewRoute("route-1", "job-1", "VH-1", "", "DEPOT-MAD", planDate, "1234ABC")
	require.NoError(t, err)

	var preconditionErr *shared.PreconditionFailureError
	assert.ErrorAs(t, route.Complete(), &preconditionErr)
}

func TestRoute_AbortFromScheduledAndInProgress(t *testing.T) {
	planDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	// Scheduled route can be called off before departure
	scheduled, err := planning.NewRoute("route-1", "job-1", "VH-1", "", "DEPOT-MAD", planDate, "1234ABC")
	require.NoError(t, err)
	require.NoError(t, scheduled.Abort())
	assert.Equal(t, planning.RouteStatusAborted, scheduled.Status)

	// In-progress route can be called off mid-run
	inProgress, err := planning.NewRoute("route-2", "job-1", "VH-2", "", "DEPOT-MAD", planDate, "5678DEF")
	require.NoError(t, err)
	require.NoError(t, inProgress.Start())
	require.NoError(t, inProgress.Abort())
	assert.Equal(t, planning.RouteStatusAborted, inProgress.Status)
}

func TestRoute_ShipmentIDsInVisitOrder(t *testing.T) {
	// Arrange
	planDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	route, err := planning.NewRoute("route-1", "job-1", "VH-1", "", "DEPOT-MAD", planDate, "1234ABC")
	require.NoError(t, err)

	route.Stops = []planning.Stop{
		{Sequence: 1, ShipmentID: "SH-3"},
		{Sequence: 2, ShipmentID: "SH-1"},
		{Sequence: 3, ShipmentID: "SH-2"},
	}

	// Act / Assert
	assert.Equal(t, []string{"SH-3", "SH-1", "SH-2"}, route.ShipmentIDs())
	assert.Equal(t, 3, route.StopCount())
}
