package e2e

import (
	"github.com/cucumber/godog"

	"cinedex/e2e/steps/common"
	"cinedex/e2e/steps/movies"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (generic requests, status and body assertions)
	common.RegisterSteps(ctx, tc)

	// Register movie catalog steps
	movies.RegisterSteps(ctx, tc)
}
