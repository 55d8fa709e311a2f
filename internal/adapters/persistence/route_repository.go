package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// GormRouteRepository implements planning.RouteRepository using GORM
type GormRouteRepository struct {
	db *gorm.DB
}

// NewGormRouteRepository creates a new GORM route repository
func NewGormRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{db: db}
}

// FindByID retrieves a route with its stops
func (r *GormRouteRepository) FindByID(ctx context.Context, id string) (*planning.Route, error) {
	var model RouteModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("route", id)
		}
		return nil, fmt.Errorf("failed to find route: %w", result.Error)
	}

	routes, err := r.attachStops(ctx, []RouteModel{model})
	if err != nil {
		return nil, err
	}
	return routes[0], nil
}

// FindByJobID returns the routes a job committed, ordered by code
func (r *GormRouteRepository) FindByJobID(ctx context.Context, jobID string) ([]*planning.Route, error) {
	var models []RouteModel
	result := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("code ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find routes by job: %w", result.Error)
	}

	return r.attachStops(ctx, models)
}

// FindByPlanDate returns all routes scheduled for a date, ordered by code
func (r *GormRouteRepository) FindByPlanDate(ctx context.Context, planDate time.Time) ([]*planning.Route, error) {
	var models []RouteModel
	result := r.db.WithContext(ctx).
		Where("plan_date = ?", planDate.Format(isoDateLayout)).
		Order("code ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find routes by date: %w", result.Error)
	}

	return r.attachStops(ctx, models)
}

// Update persists a status transition guarded by the version counter.
// A stale version returns ConflictError; the in-memory route's version is
// advanced on success so the caller sees what the database now holds.
func (r *GormRouteRepository) Update(ctx context.Context, route *planning.Route) error {
	result := r.db.WithContext(ctx).
		Model(&RouteModel{}).
		Where("id = ? AND version = ?", route.ID, route.Version).
		Updates(map[string]interface{}{
			"status":  string(route.Status),
			"version": route.Version + 1,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update route: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// Zero rows means either a stale version or a missing route
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&RouteModel{}).
			Where("id = ?", route.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to update route: %w", err)
		}
		if count == 0 {
			return shared.NewNotFoundError("route", route.ID)
		}
		return shared.NewConflictError("route", route.ID, route.Version)
	}

	route.Version++
	return nil
}

// attachStops loads the stop rows for a batch of routes in one query and
// converts everything to domain entities.
func (r *GormRouteRepository) attachStops(ctx context.Context, models []RouteModel) ([]*planning.Route, error) {
	if len(models) == 0 {
		return []*planning.Route{}, nil
	}

	routeIDs := make([]string, len(models))
	for i := range models {
		routeIDs[i] = models[i].ID
	}

	var stopModels []RouteStopModel
	result := r.db.WithContext(ctx).
		Where("route_id IN ?", routeIDs).
		Order("route_id ASC, sequence ASC").
		Find(&stopModels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load route stops: %w", result.Error)
	}

	stopsByRoute := make(map[string][]planning.Stop, len(models))
	for i := range stopModels {
		stop := stopFromModel(&stopModels[i])
		stopsByRoute[stopModels[i].RouteID] = append(stopsByRoute[stopModels[i].RouteID], stop)
	}

	routes := make([]*planning.Route, len(models))
	for i := range models {
		route, err := routeFromModel(&models[i])
		if err != nil {
			return nil, err
		}
		route.Stops = stopsByRoute[models[i].ID]
		routes[i] = route
	}
	return routes, nil
}

// routeFromModel converts a database row to the domain entity (without stops)
func routeFromModel(model *RouteModel) (*planning.Route, error) {
	planDate, err := time.Parse(isoDateLayout, model.PlanDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse plan date of route %s: %w", model.ID, err)
	}

	return &planning.Route{
		ID:                   model.ID,
		Code:                 model.Code,
		JobID:                model.JobID,
		VehicleID:            model.VehicleID,
		DriverID:             model.DriverID,
		DepotID:              model.DepotID,
		PlanDate:             planDate,
		Status:               planning.RouteStatus(model.Status),
		DepartureMinute:      model.DepartureMinute,
		ReturnMinute:         model.ReturnMinute,
		TotalDistanceKm:      model.TotalDistanceKm,
		TotalDriveMinutes:    model.TotalDriveMinutes,
		TotalServiceMinutes:  model.TotalServiceMinutes,
		TotalWaitMinutes:     model.TotalWaitMinutes,
		TotalDurationMinutes: model.TotalDurationMinutes,
		TotalLoadKg:          model.TotalLoadKg,
		TotalVolumeM3:        model.TotalVolumeM3,
		MaxPredictedTemp:     model.MaxPredictedTemp,
		FinalPredictedTemp:   model.FinalPredictedTemp,
		IsFeasible:           model.IsFeasible,
		TotalCost:            model.TotalCost,
		Version:              model.Version,
	}, nil
}

// routeToModel converts the domain entity to a database row (without stops)
func routeToModel(route *planning.Route) *RouteModel {
	return &RouteModel{
		ID:                   route.ID,
		Code:                 route.Code,
		JobID:                route.JobID,
		VehicleID:            route.VehicleID,
		DriverID:             route.DriverID,
		DepotID:              route.DepotID,
		PlanDate:             route.PlanDate.Format(isoDateLayout),
		Status:               string(route.Status),
		DepartureMinute:      route.DepartureMinute,
		ReturnMinute:         route.ReturnMinute,
		TotalDistanceKm:      route.TotalDistanceKm,
		TotalDriveMinutes:    route.TotalDriveMinutes,
		TotalServiceMinutes:  route.TotalServiceMinutes,
		TotalWaitMinutes:     route.TotalWaitMinutes,
		TotalDurationMinutes: route.TotalDurationMinutes,
		TotalLoadKg:          route.TotalLoadKg,
		TotalVolumeM3:        route.TotalVolumeM3,
		MaxPredictedTemp:     route.MaxPredictedTemp,
		FinalPredictedTemp:   route.FinalPredictedTemp,
		IsFeasible:           route.IsFeasible,
		TotalCost:            route.TotalCost,
		Version:              route.Version,
	}
}

// stopFromModel converts a stop row to the embedded domain value
func stopFromModel(model *RouteStopModel) planning.Stop {
	return planning.Stop{
		Sequence:   model.Sequence,
		ShipmentID: model.ShipmentID,
		Location: shared.Coordinate{
			Latitude:  model.Latitude,
			Longitude: model.Longitude,
		},
		Address:                model.Address,
		ArrivalMinute:          model.ArrivalMinute,
		DepartureMinute:        model.DepartureMinute,
		WindowIndex:            model.WindowIndex,
		SlackMinutes:           model.SlackMinutes,
		WaitMinutes:            model.WaitMinutes,
		PredictedArrivalTemp:   model.PredictedArrivalTemp,
		TransitTempRise:        model.TransitTempRise,
		ServiceTempRise:        model.ServiceTempRise,
		CoolingApplied:         model.CoolingApplied,
		PredictedDepartureTemp: model.PredictedDepartureTemp,
		TempFeasible:           model.TempFeasible,
	}
}

// stopToModel converts an embedded stop to its own row
func stopToModel(routeID string, stop planning.Stop) *RouteStopModel {
	return &RouteStopModel{
		RouteID:                routeID,
		Sequence:               stop.Sequence,
		ShipmentID:             stop.ShipmentID,
		Latitude:               stop.Location.Latitude,
		Longitude:              stop.Location.Longitude,
		Address:                stop.Address,
		ArrivalMinute:          stop.ArrivalMinute,
		DepartureMinute:        stop.DepartureMinute,
		WindowIndex:            stop.WindowIndex,
		SlackMinutes:           stop.SlackMinutes,
		WaitMinutes:            stop.WaitMinutes,
		PredictedArrivalTemp:   stop.PredictedArrivalTemp,
		TransitTempRise:        stop.TransitTempRise,
		ServiceTempRise:        stop.ServiceTempRise,
		CoolingApplied:         stop.CoolingApplied,
		PredictedDepartureTemp: stop.PredictedDepartureTemp,
		TempFeasible:           stop.TempFeasible,
	}
}
