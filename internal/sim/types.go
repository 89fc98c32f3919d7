package sim

import (
	"github.com/san-kum/catchsim/internal/catch"
	"github.com/san-kum/catchsim/internal/dynamo"
)

// Result is the complete output of one run.
type Result struct {
	Scenario    dynamo.Scenario
	Records     []dynamo.Record
	Outcome     catch.Outcome
	LandingY    float64
	LandingTime float64
	Metrics     map[string]float64
}

// Errors returns the tracking error ball_x - s for every record.
func (r *Result) Errors() []float64 {
	out := make([]float64, len(r.Records))
	for i, rec := range r.Records {
		out[i] = r.Scenario.BallX - rec.TrainPosition
	}
	return out
}

func (r *Result) Caught() bool {
	return r.Outcome.Status == catch.Caught
}
