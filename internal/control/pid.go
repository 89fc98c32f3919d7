package control

import (
	"fmt"

	"github.com/san-kum/catchsim/internal/dynamo"
)

// PID is a discrete PID controller driven by an externally computed error.
// The output is neither clamped nor protected against integral windup, so
// large initial errors produce large forces.
type PID struct {
	Kp         float64
	Ki         float64
	Kd         float64
	integral   float64
	prevErr    float64
	derivative float64
	seed       float64
}

// NewPID returns a controller whose previous error is seeded with seed,
// normally the error at t=0, so the first derivative is zero.
func NewPID(kp, ki, kd, seed float64) *PID {
	return &PID{
		Kp:      kp,
		Ki:      ki,
		Kd:      kd,
		prevErr: seed,
		seed:    seed,
	}
}

func (p *PID) Step(err, dt float64) (float64, error) {
	if dt <= 0 {
		return 0, fmt.Errorf("%w: controller dt must be positive, got %g", dynamo.ErrInvalidConfig, dt)
	}

	p.integral += err * dt
	p.derivative = (err - p.prevErr) / dt
	p.prevErr = err

	return p.Kp*err + p.Ki*p.integral + p.Kd*p.derivative, nil
}

// Integral is the accumulated error after the last Step.
func (p *PID) Integral() float64 { return p.integral }

// Derivative is the error rate computed by the last Step.
func (p *PID) Derivative() float64 { return p.derivative }

// Reset clears integral and derivative state and restores the seed.
func (p *PID) Reset() {
	p.integral = 0
	p.derivative = 0
	p.prevErr = p.seed
}
