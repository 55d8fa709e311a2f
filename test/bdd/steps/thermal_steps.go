package steps

import (
	"context"
	"fmt"
	"math"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/coldroute-go/internal/domain/fleet"
	"github.com/andrescamacho/coldroute-go/internal/domain/thermo"
)

const thermalTolerance = 0.01

type thermalContext struct {
	vehicle     *fleet.Vehicle
	initialTemp float64
	ambientTemp float64
	profile     *thermo.RouteProfile
}

func (tc *thermalContext) reset() {
	tc.vehicle = nil
	tc.initialTemp = 0
	tc.ambientTemp = 0
	tc.profile = nil
}

func (tc *thermalContext) stopAt(index int) (*thermo.StopTemperature, error) {
	if tc.profile == nil {
		return nil, fmt.Errorf("no tracked profile available")
	}
	if index < 1 || index > len(tc.profile.Stops) {
		return nil, fmt.Errorf("stop %d out of range, profile has %d stops", index, len(tc.profile.Stops))
	}
	return &tc.profile.Stops[index-1], nil
}

// Given steps

func (tc *thermalContext) aPremiumReeferWithStripCurtains() error {
	vehicle, err := fleet.NewVehicle("VH-BDD", "1234 ABC", 1000, 12, fleet.InsulationPremium, fleet.DoorRoll)
	if err != nil {
		return err
	}
	vehicle.HasStripCurtains = true
	tc.vehicle = vehicle
	return nil
}

func (tc *thermalContext) aStandardReeferWithASwingDoorAndAWeakCoolingUnit() error {
	vehicle, err := fleet.NewVehicle("VH-BDD", "5678 XYZ", 1000, 12, fleet.InsulationStandard, fleet.DoorSwing)
	if err != nil {
		return err
	}
	vehicle.CoolingRate = -1.0
	tc.vehicle = vehicle
	return nil
}

func (tc *thermalContext) theCargoLeavesTheDepotAt(initial, ambient float64) error {
	tc.initialTemp = initial
	tc.ambientTemp = ambient
	return nil
}

// When steps

func (tc *thermalContext) theTrackerWalksTheLegs(table *godog.Table) error {
	if tc.vehicle == nil {
		return fmt.Errorf("no vehicle configured")
	}

	legs := make([]thermo.Leg, 0, len(table.Rows)-1)
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header
		}
		if len(row.Cells) < 3 {
			return fmt.Errorf("leg row %d needs travel, service and ceiling columns", i)
		}

		var travel, service, ceiling float64
		if _, err := fmt.Sscanf(row.Cells[0].Value, "%f", &travel); err != nil {
			return fmt.Errorf("invalid travel minutes %q: %w", row.Cells[0].Value, err)
		}
		if _, err := fmt.Sscanf(row.Cells[1].Value, "%f", &service); err != nil {
			return fmt.Errorf("invalid service minutes %q: %w", row.Cells[1].Value, err)
		}
		if _, err := fmt.Sscanf(row.Cells[2].Value, "%f", &ceiling); err != nil {
			return fmt.Errorf("invalid ceiling %q: %w", row.Cells[2].Value, err)
		}

		legs = append(legs, thermo.Leg{
			TravelMinutes:  travel,
			ServiceMinutes: service,
			TempCeiling:    ceiling,
		})
	}

	tc.profile = thermo.NewTracker().TrackRoute(tc.vehicle, tc.initialTemp, tc.ambientTemp, legs)
	return nil
}

func (tc *thermalContext) theTrackerWalksALegWithAFloor(travelMinutes int, floor float64) error {
	if tc.vehicle == nil {
		return fmt.Errorf("no vehicle configured")
	}

	legs := []thermo.Leg{{
		TravelMinutes:  float64(travelMinutes),
		ServiceMinutes: 10,
		TempCeiling:    4.0,
		TempFloor:      &floor,
	}}

	tc.profile = thermo.NewTracker().TrackRoute(tc.vehicle, tc.initialTemp, tc.ambientTemp, legs)
	return nil
}

// Then steps

func (tc *thermalContext) everyStopShouldBeWithinItsCeiling() error {
	if tc.profile == nil {
		return fmt.Errorf("no tracked profile available")
	}
	if !tc.profile.IsFeasible() {
		return fmt.Errorf("expected every stop feasible, total violation %.3f", tc.profile.TotalViolation())
	}
	return nil
}

func (tc *thermalContext) theArrivalTemperatureAtStopShouldBe(index int, expected float64) error {
	stop, err := tc.stopAt(index)
	if err != nil {
		return err
	}
	if math.Abs(stop.ArrivalTemp-expected) > thermalTolerance {
		return fmt.Errorf("expected arrival temperature %.2f at stop %d, got %.4f", expected, index, stop.ArrivalTemp)
	}
	return nil
}

func (tc *thermalContext) theFinalTemperatureShouldBe(expected float64) error {
	if tc.profile == nil {
		return fmt.Errorf("no tracked profile available")
	}
	if math.Abs(tc.profile.FinalTemp()-expected) > thermalTolerance {
		return fmt.Errorf("expected final temperature %.2f, got %.4f", expected, tc.profile.FinalTemp())
	}
	return nil
}

func (tc *thermalContext) stopShouldBreachItsCeiling(index int) error {
	stop, err := tc.stopAt(index)
	if err != nil {
		return err
	}
	if stop.Feasible {
		return fmt.Errorf("expected stop %d to breach its ceiling, but arrival %.4f is feasible", index, stop.ArrivalTemp)
	}
	return nil
}

func (tc *thermalContext) theBreachAtStopShouldBe(index int, expected float64) error {
	stop, err := tc.stopAt(index)
	if err != nil {
		return err
	}
	if math.Abs(stop.ViolationAmount-expected) > thermalTolerance {
		return fmt.Errorf("expected violation %.2f at stop %d, got %.4f", expected, index, stop.ViolationAmount)
	}
	return nil
}

func (tc *thermalContext) stopShouldBreachItsFloor(index int) error {
	stop, err := tc.stopAt(index)
	if err != nil {
		return err
	}
	if stop.Feasible {
		return fmt.Errorf("expected stop %d to undershoot its floor, but arrival %.4f is feasible", index, stop.ArrivalTemp)
	}
	if stop.ViolationAmount <= 0 {
		return fmt.Errorf("expected a positive violation at stop %d, got %.4f", index, stop.ViolationAmount)
	}
	return nil
}

func InitializeThermalScenario(ctx *godog.ScenarioContext) {
	tc := &thermalContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a premium reefer with strip curtains$`, tc.aPremiumReeferWithStripCurtains)
	ctx.Step(`^a standard reefer with a swing door and a weak cooling unit$`, tc.aStandardReeferWithASwingDoorAndAWeakCoolingUnit)
	ctx.Step(`^the cargo leaves the depot at (-?[0-9.]+) degrees with ambient at (-?[0-9.]+)$`, tc.theCargoLeavesTheDepotAt)

	// When steps
	ctx.Step(`^the tracker walks the legs:$`, tc.theTrackerWalksTheLegs)
	ctx.Step(`^the tracker walks a leg of (\d+) travel minutes with a floor of (-?[0-9.]+)$`, tc.theTrackerWalksALegWithAFloor)

	// Then steps
	ctx.Step(`^every stop should be within its ceiling$`, tc.everyStopShouldBeWithinItsCeiling)
	ctx.Step(`^the arrival temperature at stop (\d+) should be (-?[0-9.]+) degrees$`, tc.theArrivalTemperatureAtStopShouldBe)
	ctx.Step(`^the final temperature should be (-?[0-9.]+) degrees$`, tc.theFinalTemperatureShouldBe)
	ctx.Step(`^stop (\d+) should breach its ceiling$`, tc.stopShouldBreachItsCeiling)
	ctx.Step(`^the breach at stop (\d+) should be (-?[0-9.]+) degrees$`, tc.theBreachAtStopShouldBe)
	ctx.Step(`^stop (\d+) should breach its floor$`, tc.stopShouldBreachItsFloor)
}
