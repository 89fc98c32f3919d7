// Package catch classifies a run as caught or missed.
//
// The [Evaluator] is a two-state machine: it starts Pending and moves at
// most once to Caught or Missed, both absorbing. It knows nothing about
// rendering; the simulator feeds it one observation per step.
package catch

import (
	"fmt"
	"math"
)

// Catch tolerances in metres.
const (
	HorizontalTolerance = 3.0
	VerticalTolerance   = 1.0
)

type Status int

const (
	Pending Status = iota
	Caught
	Missed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Caught:
		return "caught"
	case Missed:
		return "missed"
	default:
		return "unknown"
	}
}

func (s Status) Terminal() bool {
	return s == Caught || s == Missed
}

// Outcome describes the terminal transition. Step is -1 while pending.
type Outcome struct {
	Status   Status  `json:"status"`
	Step     int     `json:"step"`
	Time     float64 `json:"time"`
	Distance float64 `json:"distance"`
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "caught":
		*s = Caught
	case "missed":
		*s = Missed
	case "pending":
		*s = Pending
	default:
		return fmt.Errorf("unknown catch status %q", b)
	}
	return nil
}

type Evaluator struct {
	ballX       float64
	landingY    float64
	outcome     Outcome
	transitions int
}

func New(ballX, landingY float64) *Evaluator {
	return &Evaluator{
		ballX:    ballX,
		landingY: landingY,
		outcome:  Outcome{Status: Pending, Step: -1},
	}
}

// Observe feeds one step. trainX is the train position, ballY the ball
// height reported by the kinematics (already clamped at the surface).
func (e *Evaluator) Observe(step int, t, trainX, ballY float64) Status {
	if e.outcome.Status.Terminal() {
		return e.outcome.Status
	}

	horizontal := math.Abs(trainX - e.ballX)
	vertical := math.Abs(ballY - e.landingY)

	switch {
	case vertical <= VerticalTolerance && horizontal < HorizontalTolerance:
		e.transition(Caught, step, t, horizontal)
	case ballY <= e.landingY:
		e.transition(Missed, step, t, horizontal)
	}
	return e.outcome.Status
}

func (e *Evaluator) transition(s Status, step int, t, distance float64) {
	e.outcome = Outcome{Status: s, Step: step, Time: t, Distance: distance}
	e.transitions++
}

// Height returns the ball height to report: once classified the ball is
// frozen on the surface.
func (e *Evaluator) Height(ballY float64) float64 {
	if e.outcome.Status.Terminal() {
		return e.landingY
	}
	return ballY
}

func (e *Evaluator) Status() Status   { return e.outcome.Status }
func (e *Evaluator) Outcome() Outcome { return e.outcome }
func (e *Evaluator) Transitions() int { return e.transitions }
func (e *Evaluator) LandingY() float64 {
	return e.landingY
}
