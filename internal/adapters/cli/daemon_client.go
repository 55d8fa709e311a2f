package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DaemonClient provides a client interface to communicate with the daemon
// over its HTTP API
type DaemonClient struct {
	baseURL    string
	httpClient *http.Client
}

// Response types (mirrors the daemon's JSON payloads)

type SubmitPlanRequest struct {
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

type SubmitPlanResponse struct {
	JobID         string `json:"job_id"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	VehicleCount  int    `json:"vehicle_count"`
	ShipmentCount int    `json:"shipment_count"`
}

type JobInfo struct {
	JobID           string                 `json:"job_id"`
	Status          string                 `json:"status"`
	Progress        int                    `json:"progress"`
	PlanDate        string                 `json:"plan_date"`
	CreatedAt       time.Time              `json:"created_at"`
	StartedAt       *time.Time             `json:"started_at"`
	FinishedAt      *time.Time             `json:"finished_at"`
	DurationSeconds *float64               `json:"duration_seconds"`
	VehicleCount    int                    `json:"vehicle_count"`
	ShipmentCount   int                    `json:"shipment_count"`
	ResultSummary   map[string]interface{} `json:"result_summary"`
	RouteIDs        []string               `json:"route_ids"`
	FailureKind     string                 `json:"failure_kind"`
	ErrorMessage    string                 `json:"error_message"`
}

type CancelJobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type JobLogEntry struct {
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type JobLogsResponse struct {
	JobID   string        `json:"job_id"`
	Entries []JobLogEntry `json:"entries"`
}

type TemperatureViolation struct {
	RouteID       string  `json:"route_id"`
	RouteCode     string  `json:"route_code"`
	ShipmentID    string  `json:"shipment_id"`
	StopSequence  int     `json:"stop_sequence"`
	PredictedTemp float64 `json:"predicted_temp"`
	TempCeiling   float64 `json:"temp_ceiling"`
	Overshoot     float64 `json:"overshoot"`
	SLA           string  `json:"sla"`
}

type UnassignedReason struct {
	Type            string `json:"type"`
	Message         string `json:"message"`
	Parameter       string `json:"parameter"`
	CurrentValue    string `json:"current_value"`
	ConstraintValue string `json:"constraint_value"`
}

type UnassignedShipment struct {
	ShipmentID    string             `json:"shipment_id"`
	OrderNumber   string             `json:"order_number"`
	SLA           string             `json:"sla"`
	LikelyReasons []UnassignedReason `json:"likely_reasons"`
}

type ViolationsResponse struct {
	JobID                 string                 `json:"job_id"`
	JobStatus             string                 `json:"job_status"`
	ErrorMessage          string                 `json:"error_message"`
	TemperatureViolations []TemperatureViolation `json:"temperature_violations"`
	UnassignedShipments   []UnassignedShipment   `json:"unassigned_shipments"`
}

type StopInfo struct {
	Sequence               int     `json:"sequence"`
	ShipmentID             string  `json:"shipment_id"`
	Latitude               float64 `json:"latitude"`
	Longitude              float64 `json:"longitude"`
	Address                string  `json:"address"`
	ArrivalTime            string  `json:"arrival_time"`
	DepartureTime          string  `json:"departure_time"`
	ArrivalMinute          int     `json:"arrival_minute"`
	DepartureMinute        int     `json:"departure_minute"`
	WindowIndex            int     `json:"window_index"`
	SlackMinutes           int     `json:"slack_minutes"`
	WaitMinutes            int     `json:"wait_minutes"`
	PredictedArrivalTemp   float64 `json:"predicted_arrival_temp"`
	TransitTempRise        float64 `json:"transit_temp_rise"`
	ServiceTempRise        float64 `json:"service_temp_rise"`
	CoolingApplied         float64 `json:"cooling_applied"`
	PredictedDepartureTemp float64 `json:"predicted_departure_temp"`
	TempFeasible           bool    `json:"temp_feasible"`
}

type RouteInfo struct {
	ID                   string     `json:"id"`
	RouteCode            string     `json:"route_code"`
	JobID                string     `json:"job_id"`
	VehicleID            string     `json:"vehicle_id"`
	DriverID             string     `json:"driver_id"`
	DepotID              string     `json:"depot_id"`
	PlanDate             string     `json:"plan_date"`
	Status               string     `json:"status"`
	TotalStops           int        `json:"total_stops"`
	DepartureTime        string     `json:"departure_time"`
	ReturnTime           string     `json:"return_time"`
	TotalDistanceKm      float64    `json:"total_distance_km"`
	TotalDriveMinutes    int        `json:"total_drive_minutes"`
	TotalServiceMinutes  int        `json:"total_service_minutes"`
	TotalWaitMinutes     int        `json:"total_wait_minutes"`
	TotalDurationMinutes int        `json:"total_duration_minutes"`
	TotalLoadKg          float64    `json:"total_load_kg"`
	TotalVolumeM3        float64    `json:"total_volume_m3"`
	MaxPredictedTemp     float64    `json:"max_predicted_temp"`
	FinalPredictedTemp   float64    `json:"final_predicted_temp"`
	IsFeasible           bool       `json:"is_feasible"`
	OptimizationCost     int64      `json:"optimization_cost"`
	Version              int        `json:"version"`
	Stops                []StopInfo `json:"stops"`
}

type MapStop struct {
	Sequence      int     `json:"sequence"`
	ShipmentID    string  `json:"shipment_id"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Address       string  `json:"address"`
	ArrivalTime   string  `json:"arrival_time"`
	DepartureTime string  `json:"departure_time"`
	PredictedTemp float64 `json:"predicted_temp"`
	TempCeiling   float64 `json:"temp_ceiling"`
	Feasible      bool    `json:"feasible"`
}

type MapRoute struct {
	RouteID   string    `json:"route_id"`
	Code      string    `json:"code"`
	VehicleID string    `json:"vehicle_id"`
	Status    string    `json:"status"`
	Color     string    `json:"color"`
	Stops     []MapStop `json:"stops"`
}

type MapDepot struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type MapDataResponse struct {
	Depot  MapDepot   `json:"depot"`
	Routes []MapRoute `json:"routes"`
}

type StopAnalysis struct {
	Sequence       int     `json:"sequence"`
	ShipmentID     string  `json:"shipment_id"`
	ArrivalTime    string  `json:"arrival_time"`
	TransitRise    float64 `json:"transit_rise"`
	CoolingApplied float64 `json:"cooling_applied"`
	ArrivalTemp    float64 `json:"arrival_temp"`
	ServiceRise    float64 `json:"service_rise"`
	DepartureTemp  float64 `json:"departure_temp"`
	TempCeiling    float64 `json:"temp_ceiling"`
	Headroom       float64 `json:"headroom"`
	Feasible       bool    `json:"feasible"`
}

type TemperatureAnalysisResponse struct {
	RouteID     string         `json:"route_id"`
	RouteCode   string         `json:"route_code"`
	VehicleID   string         `json:"vehicle_id"`
	InitialTemp float64        `json:"initial_temp"`
	MaxTemp     float64        `json:"max_temp"`
	FinalTemp   float64        `json:"final_temp"`
	Feasible    bool           `json:"feasible"`
	Stops       []StopAnalysis `json:"stops"`
}

type HealthResponse struct {
	Status     string   `json:"status"`
	ActiveJobs []string `json:"active_jobs"`
}

// NewDaemonClient creates a new daemon client for the given server URL.
// A bare host:port is accepted and treated as http.
func NewDaemonClient(serverURL string) (*DaemonClient, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("server URL is empty")
	}
	if !strings.Contains(serverURL, "://") {
		serverURL = "http://" + serverURL
	}

	parsed, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", serverURL, err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: missing host", serverURL)
	}

	return &DaemonClient{
		baseURL:    strings.TrimRight(parsed.String(), "/"),
		httpClient: &http.Client{},
	}, nil
}

// Close releases idle connections held by the client
func (c *DaemonClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SubmitPlan submits an optimization job for a plan date
func (c *DaemonClient) SubmitPlan(ctx context.Context, req *SubmitPlanRequest) (*SubmitPlanResponse, error) {
	var resp SubmitPlanResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/optimization/jobs", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to submit plan: %w", err)
	}
	return &resp, nil
}

// GetJob fetches the current state of one optimization job
func (c *DaemonClient) GetJob(ctx context.Context, jobID string) (*JobInfo, error) {
	var resp JobInfo
	if err := c.do(ctx, http.MethodGet, "/api/v1/optimization/jobs/"+jobID, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &resp, nil
}

// ListJobs lists optimization jobs, optionally filtered by status and
// plan date (YYYY-MM-DD)
func (c *DaemonClient) ListJobs(ctx context.Context, status, planDate string) ([]JobInfo, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if planDate != "" {
		query.Set("plan_date", planDate)
	}

	var resp struct {
		Items []JobInfo `json:"items"`
		Total int       `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/optimization/jobs", query, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return resp.Items, nil
}

// CancelJob requests cancellation of a queued or running job
func (c *DaemonClient) CancelJob(ctx context.Context, jobID string) (*CancelJobResponse, error) {
	var resp CancelJobResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/optimization/jobs/"+jobID+"/cancel", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to cancel job: %w", err)
	}
	return &resp, nil
}

// GetJobLogs fetches the persisted log trail of a job
func (c *DaemonClient) GetJobLogs(ctx context.Context, jobID string) (*JobLogsResponse, error) {
	var resp JobLogsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/optimization/jobs/"+jobID+"/logs", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get job logs: %w", err)
	}
	return &resp, nil
}

// GetViolations fetches the violations report for a finished job
func (c *DaemonClient) GetViolations(ctx context.Context, jobID string) (*ViolationsResponse, error) {
	var resp ViolationsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/optimization/jobs/"+jobID+"/violations", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get violations: %w", err)
	}
	return &resp, nil
}

// ListRoutes lists committed routes filtered by job and/or plan date
func (c *DaemonClient) ListRoutes(ctx context.Context, jobID, planDate string) ([]RouteInfo, error) {
	query := url.Values{}
	if jobID != "" {
		query.Set("job_id", jobID)
	}
	if planDate != "" {
		query.Set("plan_date", planDate)
	}

	var resp struct {
		Items []RouteInfo `json:"items"`
		Total int         `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/routes", query, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	return resp.Items, nil
}

// GetRoute fetches one route with its stops in visit order
func (c *DaemonClient) GetRoute(ctx context.Context, routeID string) (*RouteInfo, error) {
	var resp RouteInfo
	if err := c.do(ctx, http.MethodGet, "/api/v1/routes/"+routeID, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get route: %w", err)
	}
	return &resp, nil
}

// GetMapData fetches depot and route markers for a plan date
func (c *DaemonClient) GetMapData(ctx context.Context, planDate, jobID string) (*MapDataResponse, error) {
	query := url.Values{}
	query.Set("plan_date", planDate)
	if jobID != "" {
		query.Set("job_id", jobID)
	}

	var resp MapDataResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/routes/map-data", query, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get map data: %w", err)
	}
	return &resp, nil
}

// GetTemperatureAnalysis fetches the stop-by-stop thermal replay of a route
func (c *DaemonClient) GetTemperatureAnalysis(ctx context.Context, routeID string) (*TemperatureAnalysisResponse, error) {
	var resp TemperatureAnalysisResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/routes/"+routeID+"/temperature-analysis", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get temperature analysis: %w", err)
	}
	return &resp, nil
}

// UpdateRouteStatus transitions a route's operational status. The version
// must match what the caller last read or the daemon rejects the change.
func (c *DaemonClient) UpdateRouteStatus(ctx context.Context, routeID, status string, expectedVersion int) (*RouteInfo, error) {
	body := map[string]interface{}{
		"status":           status,
		"expected_version": expectedVersion,
	}

	var resp RouteInfo
	if err := c.do(ctx, http.MethodPatch, "/api/v1/routes/"+routeID+"/status", nil, body, &resp); err != nil {
		return nil, fmt.Errorf("failed to update route status: %w", err)
	}
	return &resp, nil
}

// HealthCheck verifies the daemon is up and returns its active jobs
func (c *DaemonClient) HealthCheck(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	return &resp, nil
}

// do performs one HTTP round trip and decodes the JSON response into out
func (c *DaemonClient) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach daemon at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeAPIError turns a non-2xx response into an error, preferring the
// daemon's own error message when the body carries one
func decodeAPIError(resp *http.Response) error {
	var apiErr struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
		if apiErr.Details != "" {
			return fmt.Errorf("daemon returned %s: %s (%s)", resp.Status, apiErr.Error, apiErr.Details)
		}
		return fmt.Errorf("daemon returned %s: %s", resp.Status, apiErr.Error)
	}
	return fmt.Errorf("daemon returned %s", resp.Status)
}
