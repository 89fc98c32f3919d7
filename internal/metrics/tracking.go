package metrics

import (
	"math"

	"github.com/san-kum/catchsim/internal/dynamo"
)

// Tracking reports the horizontal distance between train and ball at the
// first or the last record of a run.
type Tracking struct {
	name    string
	ballX   float64
	final   bool
	value   float64
	samples int
}

func NewInitialDistance(ballX float64) *Tracking {
	return &Tracking{name: "initial_distance", ballX: ballX}
}

func NewFinalError(ballX float64) *Tracking {
	return &Tracking{name: "final_error", ballX: ballX, final: true}
}

func (e *Tracking) Name() string { return e.name }

func (e *Tracking) Observe(r dynamo.Record) {
	if e.samples == 0 || e.final {
		e.value = math.Abs(e.ballX - r.TrainPosition)
	}
	e.samples++
}

func (e *Tracking) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.value
}

func (e *Tracking) Reset() {
	e.value = 0
	e.samples = 0
}
