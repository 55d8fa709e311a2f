package bdd

import (
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/coldroute-go/test/bdd/steps"
)

func TestThermalTracking(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			steps.InitializeThermalScenario(sc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/domain/thermal_tracking.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run thermal tracking tests")
	}
}
