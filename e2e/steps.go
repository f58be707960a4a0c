package e2e

import (
	"github.com/cucumber/godog"

	"sevsizer/e2e/steps/admin"
	"sevsizer/e2e/steps/common"
	"sevsizer/e2e/steps/measurement"
	"sevsizer/e2e/steps/sizing"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (health, generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register capture and merge steps
	measurement.RegisterSteps(ctx, tc)

	// Register recommendation steps
	sizing.RegisterSteps(ctx, tc)

	// Register chart administration steps
	admin.RegisterSteps(ctx, tc)
}
