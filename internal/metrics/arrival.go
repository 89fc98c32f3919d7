package metrics

import (
	"math"

	"github.com/san-kum/catchsim/internal/dynamo"
)

// ArrivalTolerance is the distance to the ball at which the train counts
// as arrived.
const ArrivalTolerance = 2.0

// Arrival is the first time the train comes within tolerance of the ball's
// x position, or -1 if it never does.
type Arrival struct {
	name      string
	ballX     float64
	tolerance float64
	time      float64
	arrived   bool
}

func NewArrivalTime(ballX float64) *Arrival {
	return &Arrival{name: "arrival_time", ballX: ballX, tolerance: ArrivalTolerance}
}

func (a *Arrival) Name() string { return a.name }

func (a *Arrival) Observe(r dynamo.Record) {
	if a.arrived {
		return
	}
	if math.Abs(r.TrainPosition-a.ballX) <= a.tolerance {
		a.arrived = true
		a.time = r.Time
	}
}

func (a *Arrival) Value() float64 {
	if !a.arrived {
		return -1
	}
	return a.time
}

func (a *Arrival) Reset() {
	a.arrived = false
	a.time = 0
}
