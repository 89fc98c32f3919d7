// Package metrics holds per-run record metrics and batch summaries.
package metrics

import (
	"github.com/san-kum/catchsim/internal/catch"
	"github.com/san-kum/catchsim/internal/dynamo"
	"github.com/san-kum/catchsim/internal/sim"
)

// Names of the outcome entries added by Collect.
const (
	Caught        = "caught"
	CatchTime     = "catch_time"
	CatchDistance = "catch_distance"
	LandingTime   = "landing_time"
)

// Default returns the record metrics attached to every run of sc.
func Default(sc dynamo.Scenario) []dynamo.Metric {
	return []dynamo.Metric{
		NewInitialDistance(sc.BallX),
		NewFinalError(sc.BallX),
		NewArrivalTime(sc.BallX),
		NewMaxVelocity(),
		NewMaxAcceleration(),
		NewMaxForce(),
		NewControlEffort(),
	}
}

// Collect merges the record metrics of res with its catch outcome.
// catch_time and catch_distance are only present for caught runs.
func Collect(res *sim.Result) map[string]float64 {
	out := make(map[string]float64, len(res.Metrics)+4)
	for k, v := range res.Metrics {
		out[k] = v
	}

	out[LandingTime] = res.LandingTime
	out[Caught] = 0
	if res.Outcome.Status == catch.Caught {
		out[Caught] = 1
		out[CatchTime] = res.Outcome.Time
		out[CatchDistance] = res.Outcome.Distance
	}
	return out
}
