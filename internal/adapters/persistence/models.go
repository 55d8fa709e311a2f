package persistence

import (
	"time"
)

// VehicleModel represents the vehicles table
type VehicleModel struct {
	ID                string  `gorm:"column:id;primaryKey"`
	LicensePlate      string  `gorm:"column:license_plate;unique;not null"`
	MaxWeightKg       float64 `gorm:"column:max_weight_kg;not null"`
	MaxVolumeM3       float64 `gorm:"column:max_volume_m3;not null"`
	Insulation        string  `gorm:"column:insulation;not null;default:'STANDARD'"`
	DoorType          string  `gorm:"column:door_type;not null;default:'SWING'"`
	HasStripCurtains  bool    `gorm:"column:has_strip_curtains;not null;default:false"`
	CoolingRate       float64 `gorm:"column:cooling_rate;not null;default:-2.5"`
	MinTempCapability float64 `gorm:"column:min_temp_capability;not null;default:0"`
	Status            string  `gorm:"column:status;not null;default:'AVAILABLE';index"`
	DriverID          string  `gorm:"column:driver_id"`
}

func (VehicleModel) TableName() string {
	return "vehicles"
}

// ShipmentModel represents the shipments table
// Delivery windows are stored as a JSON array in windows_json; the rest of
// the row is flat so status scans and route joins stay cheap.
type ShipmentModel struct {
	ID             string   `gorm:"column:id;primaryKey"`
	OrderNumber    string   `gorm:"column:order_number"`
	Latitude       float64  `gorm:"column:latitude;not null"`
	Longitude      float64  `gorm:"column:longitude;not null"`
	Address        string   `gorm:"column:address;type:text"`
	WeightKg       float64  `gorm:"column:weight_kg;not null"`
	VolumeM3       float64  `gorm:"column:volume_m3;not null"`
	WindowsJSON    string   `gorm:"column:windows_json;type:text;not null"`
	ServiceMinutes int      `gorm:"column:service_minutes;not null"`
	TempCeiling    float64  `gorm:"column:temp_ceiling;not null"`
	TempFloor      *float64 `gorm:"column:temp_floor"`
	SLA            string   `gorm:"column:sla;not null"`
	Priority       int      `gorm:"column:priority;not null;default:50"`
	Status         string   `gorm:"column:status;not null;default:'PENDING';index"`
	RouteID        string   `gorm:"column:route_id;index"`
	RouteSequence  int      `gorm:"column:route_sequence;default:0"`
}

func (ShipmentModel) TableName() string {
	return "shipments"
}

// DepotModel represents the depots table
type DepotModel struct {
	ID          string  `gorm:"column:id;primaryKey"`
	Name        string  `gorm:"column:name;not null"`
	Latitude    float64 `gorm:"column:latitude;not null"`
	Longitude   float64 `gorm:"column:longitude;not null"`
	OpenMinute  int     `gorm:"column:open_minute;not null;default:0"`
	CloseMinute int     `gorm:"column:close_minute;not null"`
	IsDefault   bool    `gorm:"column:is_default;not null;default:false;index"`
}

func (DepotModel) TableName() string {
	return "depots"
}

// DriverModel represents the drivers table. Accumulated labor minutes are
// denormalized here so labor bounds never need a log scan.
type DriverModel struct {
	ID                       string `gorm:"column:id;primaryKey"`
	Name                     string `gorm:"column:name;not null"`
	VehicleID                string `gorm:"column:vehicle_id;index"`
	AccumulatedWeeklyMinutes int    `gorm:"column:accumulated_weekly_minutes;not null;default:0"`
	AccumulatedDailyMinutes  int    `gorm:"column:accumulated_daily_minutes;not null;default:0"`
}

func (DriverModel) TableName() string {
	return "drivers"
}

// LaborLogModel represents the labor_logs table
type LaborLogModel struct {
	ID             string `gorm:"column:id;primaryKey"`
	DriverID       string `gorm:"column:driver_id;not null;index"`
	RouteID        string `gorm:"column:route_id;not null;index"`
	PlanDate       string `gorm:"column:plan_date;not null"` // ISO date string
	DriveMinutes   int    `gorm:"column:drive_minutes;not null"`
	ServiceMinutes int    `gorm:"column:service_minutes;not null"`
}

func (LaborLogModel) TableName() string {
	return "labor_logs"
}

// PlanJobModel represents the plan_jobs table
// The full request is kept as JSON alongside the columns queries filter on,
// so a job row can rebuild the exact run that produced it.
type PlanJobModel struct {
	ID            string     `gorm:"column:id;primaryKey"`
	PlanDate      string     `gorm:"column:plan_date;not null;index"` // ISO date string
	Status        string     `gorm:"column:status;not null;index"`
	Progress      int        `gorm:"column:progress;not null;default:0"`
	RequestJSON   string     `gorm:"column:request_json;type:text;not null"`
	VehicleIDs    string     `gorm:"column:vehicle_ids;type:text"`    // JSON array as text
	ShipmentIDs   string     `gorm:"column:shipment_ids;type:text"`   // JSON array as text
	ResultSummary string     `gorm:"column:result_summary;type:text"` // JSON as text
	Unassigned    string     `gorm:"column:unassigned;type:text"`     // JSON array as text
	FailureKind   string     `gorm:"column:failure_kind"`
	LastError     string     `gorm:"column:last_error;type:text"`
	// Lifecycle timestamps come from the job's clock, never from gorm's
	// auto-tracking, so mock-clock tests stay deterministic.
	CreatedAt  time.Time  `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;not null;autoUpdateTime:false"`
	StartedAt  *time.Time `gorm:"column:started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at"`
}

func (PlanJobModel) TableName() string {
	return "plan_jobs"
}

// RouteModel represents the routes table. Routes belong to the job that
// planned them; deleting a job takes its routes and stops with it.
type RouteModel struct {
	ID                   string        `gorm:"column:id;primaryKey"`
	Code                 string        `gorm:"column:code;unique;not null"`
	JobID                string        `gorm:"column:job_id;not null;index"`
	Job                  *PlanJobModel `gorm:"foreignKey:JobID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	VehicleID            string        `gorm:"column:vehicle_id;not null"`
	DriverID             string        `gorm:"column:driver_id"`
	DepotID              string        `gorm:"column:depot_id"`
	PlanDate             string        `gorm:"column:plan_date;not null;index"` // ISO date string
	Status               string        `gorm:"column:status;not null"`
	DepartureMinute      int           `gorm:"column:departure_minute;not null"`
	ReturnMinute         int           `gorm:"column:return_minute;not null"`
	TotalDistanceKm      float64       `gorm:"column:total_distance_km;not null"`
	TotalDriveMinutes    int           `gorm:"column:total_drive_minutes;not null"`
	TotalServiceMinutes  int           `gorm:"column:total_service_minutes;not null"`
	TotalWaitMinutes     int           `gorm:"column:total_wait_minutes;not null"`
	TotalDurationMinutes int           `gorm:"column:total_duration_minutes;not null"`
	TotalLoadKg          float64       `gorm:"column:total_load_kg;not null"`
	TotalVolumeM3        float64       `gorm:"column:total_volume_m3;not null"`
	MaxPredictedTemp     float64       `gorm:"column:max_predicted_temp"`
	FinalPredictedTemp   float64       `gorm:"column:final_predicted_temp"`
	IsFeasible           bool          `gorm:"column:is_feasible;not null;default:true"`
	TotalCost            int64         `gorm:"column:total_cost;not null;default:0"`
	Version              int           `gorm:"column:version;not null;default:1"`
}

func (RouteModel) TableName() string {
	return "routes"
}

// RouteStopModel represents the route_stops table. One row per delivery,
// carrying the schedule and the thermodynamic prediction for that stop.
type RouteStopModel struct {
	ID                     int         `gorm:"column:id;primaryKey;autoIncrement"`
	RouteID                string      `gorm:"column:route_id;not null;uniqueIndex:uq_route_stop_sequence"`
	Route                  *RouteModel `gorm:"foreignKey:RouteID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Sequence               int         `gorm:"column:sequence;not null;uniqueIndex:uq_route_stop_sequence"`
	ShipmentID             string      `gorm:"column:shipment_id;not null;index"`
	Latitude               float64     `gorm:"column:latitude;not null"`
	Longitude              float64     `gorm:"column:longitude;not null"`
	Address                string      `gorm:"column:address;type:text"`
	ArrivalMinute          int         `gorm:"column:arrival_minute;not null"`
	DepartureMinute        int         `gorm:"column:departure_minute;not null"`
	WindowIndex            int         `gorm:"column:window_index;not null;default:0"`
	SlackMinutes           int         `gorm:"column:slack_minutes;not null;default:0"`
	WaitMinutes            int         `gorm:"column:wait_minutes;not null;default:0"`
	PredictedArrivalTemp   float64     `gorm:"column:predicted_arrival_temp;not null"`
	TransitTempRise        float64     `gorm:"column:transit_temp_rise"`
	ServiceTempRise        float64     `gorm:"column:service_temp_rise"`
	CoolingApplied         float64     `gorm:"column:cooling_applied"`
	PredictedDepartureTemp float64     `gorm:"column:predicted_departure_temp"`
	TempFeasible           bool        `gorm:"column:temp_feasible;not null;default:true"`
}

func (RouteStopModel) TableName() string {
	return "route_stops"
}

// JobLogModel represents the job_logs table
type JobLogModel struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	JobID     string    `gorm:"column:job_id;not null;index"`
	Level     string    `gorm:"column:level;not null;default:'INFO'"`
	Message   string    `gorm:"column:message;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (JobLogModel) TableName() string {
	return "job_logs"
}
