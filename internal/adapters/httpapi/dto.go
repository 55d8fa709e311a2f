package httpapi

import (
	"time"

	"github.com/andrescamacho/coldroute-go/internal/application/planning/queries"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

const planDateLayout = "2006-01-02"

// CreateJobRequest is the body for starting a planning job.
// Empty vehicle or shipment lists mean "everything eligible", and an
// absent depot falls back to the configured default.
type CreateJobRequest struct {
	PlanDate             string   `json:"plan_date"`
	DepotID              string   `json:"depot_id,omitempty"`
	DepotLatitude        *float64 `json:"depot_latitude,omitempty"`
	DepotLongitude       *float64 `json:"depot_longitude,omitempty"`
	VehicleIDs           []string `json:"vehicle_ids,omitempty"`
	ShipmentIDs          []string `json:"shipment_ids,omitempty"`
	Strategy             string   `json:"strategy,omitempty"`
	TimeLimitSeconds     int      `json:"time_limit_seconds,omitempty"`
	PlannedDepartureTime string   `json:"planned_departure_time,omitempty"`
	AmbientTemperature   *float64 `json:"ambient_temperature,omitempty"`
	InitialCargoTemp     *float64 `json:"initial_cargo_temperature,omitempty"`
	AverageSpeedKmh      *float64 `json:"average_speed_kmh,omitempty"`
}

// CreateJobResponse acknowledges an accepted job; the solve runs async
type CreateJobResponse struct {
	JobID         string `json:"job_id"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	VehicleCount  int    `json:"vehicle_count"`
	ShipmentCount int    `json:"shipment_count"`
}

// JobResponse is the polling view of a planning job
type JobResponse struct {
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	PlanDate string `json:"plan_date"`

	CreatedAt       time.Time  `json:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	DurationSeconds *float64   `json:"duration_seconds,omitempty"`

	VehicleCount  int `json:"vehicle_count"`
	ShipmentCount int `json:"shipment_count"`

	ResultSummary map[string]interface{} `json:"result_summary,omitempty"`
	RouteIDs      []string               `json:"route_ids,omitempty"`

	FailureKind  string `json:"failure_kind,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// JobListResponse carries jobs newest first
type JobListResponse struct {
	Items []JobResponse `json:"items"`
	Total int           `json:"total"`
}

// CancelJobResponse reports the job's state after cancellation
type CancelJobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// JobLogEntryResponse is one persisted solver log line
type JobLogEntryResponse struct {
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// JobLogsResponse carries a job's log lines, oldest first
type JobLogsResponse struct {
	JobID   string                `json:"job_id"`
	Entries []JobLogEntryResponse `json:"entries"`
}

// ViolationsResponse explains what kept shipments off the plan
type ViolationsResponse struct {
	JobID                 string                         `json:"job_id"`
	JobStatus             string                         `json:"job_status"`
	ErrorMessage          string                         `json:"error_message,omitempty"`
	TemperatureViolations []queries.TemperatureViolation `json:"temperature_violations"`
	UnassignedShipments   []planning.UnassignedShipment  `json:"unassigned_shipments"`
}

// StopResponse is one delivery on a route, with the committed schedule
// in both minute-of-day and HH:MM form
type StopResponse struct {
	Sequence   int     `json:"sequence"`
	ShipmentID string  `json:"shipment_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Address    string  `json:"address,omitempty"`

	ArrivalTime     string `json:"arrival_time"`
	DepartureTime   string `json:"departure_time"`
	ArrivalMinute   int    `json:"arrival_minute"`
	DepartureMinute int    `json:"departure_minute"`

	WindowIndex  int `json:"window_index"`
	SlackMinutes int `json:"slack_minutes"`
	WaitMinutes  int `json:"wait_minutes"`

	PredictedArrivalTemp   float64 `json:"predicted_arrival_temp"`
	TransitTempRise        float64 `json:"transit_temp_rise"`
	ServiceTempRise        float64 `json:"service_temp_rise"`
	CoolingApplied         float64 `json:"cooling_applied"`
	PredictedDepartureTemp float64 `json:"predicted_departure_temp"`
	TempFeasible           bool    `json:"temp_feasible"`
}

// RouteResponse is the full view of a planned route
type RouteResponse struct {
	ID        string `json:"id"`
	RouteCode string `json:"route_code"`
	JobID     string `json:"job_id"`
	VehicleID string `json:"vehicle_id"`
	DriverID  string `json:"driver_id,omitempty"`
	DepotID   string `json:"depot_id,omitempty"`
	PlanDate  string `json:"plan_date"`
	Status    string `json:"status"`

	TotalStops    int    `json:"total_stops"`
	DepartureTime string `json:"departure_time"`
	ReturnTime    string `json:"return_time"`

	TotalDistanceKm      float64 `json:"total_distance_km"`
	TotalDriveMinutes    int     `json:"total_drive_minutes"`
	TotalServiceMinutes  int     `json:"total_service_minutes"`
	TotalWaitMinutes     int     `json:"total_wait_minutes"`
	TotalDurationMinutes int     `json:"total_duration_minutes"`

	TotalLoadKg   float64 `json:"total_load_kg"`
	TotalVolumeM3 float64 `json:"total_volume_m3"`

	MaxPredictedTemp   float64 `json:"max_predicted_temp"`
	FinalPredictedTemp float64 `json:"final_predicted_temp"`
	IsFeasible         bool    `json:"is_feasible"`

	OptimizationCost int64 `json:"optimization_cost"`
	Version          int   `json:"version"`

	Stops []StopResponse `json:"stops"`
}

// RouteListResponse carries routes ordered by code
type RouteListResponse struct {
	Items []RouteResponse `json:"items"`
	Total int             `json:"total"`
}

// MapDepot is the depot marker on the dispatcher map
type MapDepot struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapDataResponse feeds the dispatcher map view
type MapDataResponse struct {
	Depot  MapDepot           `json:"depot"`
	Routes []queries.MapRoute `json:"routes"`
}

// TemperatureAnalysisResponse is the stop-by-stop thermal replay of a
// committed route
type TemperatureAnalysisResponse struct {
	RouteID     string                 `json:"route_id"`
	RouteCode   string                 `json:"route_code"`
	VehicleID   string                 `json:"vehicle_id"`
	InitialTemp float64                `json:"initial_temp"`
	MaxTemp     float64                `json:"max_temp"`
	FinalTemp   float64                `json:"final_temp"`
	Feasible    bool                   `json:"feasible"`
	Stops       []queries.StopAnalysis `json:"stops"`
}

// UpdateRouteStatusRequest is the body for a route status transition.
// ExpectedVersion must match the version the caller last read.
type UpdateRouteStatusRequest struct {
	Status          string `json:"status"`
	ExpectedVersion int    `json:"expected_version"`
}

// Converters

func jobToResponse(job *planning.PlanJob, routeIDs []string) JobResponse {
	resp := JobResponse{
		JobID:         job.ID(),
		Status:        string(job.Status()),
		Progress:      job.Progress(),
		PlanDate:      job.PlanDate().Format(planDateLayout),
		CreatedAt:     job.CreatedAt(),
		StartedAt:     job.StartedAt(),
		FinishedAt:    job.FinishedAt(),
		VehicleCount:  len(job.VehicleIDs()),
		ShipmentCount: len(job.ShipmentIDs()),
		ResultSummary: job.ResultSummary(),
		RouteIDs:      routeIDs,
		FailureKind:   string(job.FailureKind()),
	}

	if job.StartedAt() != nil && job.FinishedAt() != nil {
		seconds := job.FinishedAt().Sub(*job.StartedAt()).Seconds()
		resp.DurationSeconds = &seconds
	}

	if job.LastError() != nil {
		resp.ErrorMessage = job.LastError().Error()
	}

	return resp
}

func stopToResponse(stop planning.Stop) StopResponse {
	return StopResponse{
		Sequence:   stop.Sequence,
		ShipmentID: stop.ShipmentID,
		Latitude:   stop.Location.Latitude,
		Longitude:  stop.Location.Longitude,
		Address:    stop.Address,

		ArrivalTime:     shared.FormatMinuteOfDay(stop.ArrivalMinute),
		DepartureTime:   shared.FormatMinuteOfDay(stop.DepartureMinute),
		ArrivalMinute:   stop.ArrivalMinute,
		DepartureMinute: stop.DepartureMinute,

		WindowIndex:  stop.WindowIndex,
		SlackMinutes: stop.SlackMinutes,
		WaitMinutes:  stop.WaitMinutes,

		PredictedArrivalTemp:   stop.PredictedArrivalTemp,
		TransitTempRise:        stop.TransitTempRise,
		ServiceTempRise:        stop.ServiceTempRise,
		CoolingApplied:         stop.CoolingApplied,
		PredictedDepartureTemp: stop.PredictedDepartureTemp,
		TempFeasible:           stop.TempFeasible,
	}
}

func routeToResponse(route *planning.Route) RouteResponse {
	stops := make([]StopResponse, 0, len(route.Stops))
	for _, stop := range route.Stops {
		stops = append(stops, stopToResponse(stop))
	}

	return RouteResponse{
		ID:        route.ID,
		RouteCode: route.Code,
		JobID:     route.JobID,
		VehicleID: route.VehicleID,
		DriverID:  route.DriverID,
		DepotID:   route.DepotID,
		PlanDate:  route.PlanDate.Format(planDateLayout),
		Status:    string(route.Status),

		TotalStops:    route.StopCount(),
		DepartureTime: shared.FormatMinuteOfDay(route.DepartureMinute),
		ReturnTime:    shared.FormatMinuteOfDay(route.ReturnMinute),

		TotalDistanceKm:      route.TotalDistanceKm,
		TotalDriveMinutes:    route.TotalDriveMinutes,
		TotalServiceMinutes:  route.TotalServiceMinutes,
		TotalWaitMinutes:     route.TotalWaitMinutes,
		TotalDurationMinutes: route.TotalDurationMinutes,

		TotalLoadKg:   route.TotalLoadKg,
		TotalVolumeM3: route.TotalVolumeM3,

		MaxPredictedTemp:   route.MaxPredictedTemp,
		FinalPredictedTemp: route.FinalPredictedTemp,
		IsFeasible:         route.IsFeasible,

		OptimizationCost: route.TotalCost,
		Version:          route.Version,

		Stops: stops,
	}
}

func logEntriesToResponse(jobID string, entries []planning.JobLogEntry) JobLogsResponse {
	lines := make([]JobLogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, JobLogEntryResponse{
			Level:     entry.Level,
			Message:   entry.Message,
			CreatedAt: entry.CreatedAt,
		})
	}
	return JobLogsResponse{JobID: jobID, Entries: lines}
}
