package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/catchsim/internal/dynamo"
)

// VelocityDeadband is the speed below which Coulomb friction is switched
// off so the train does not chatter at rest.
const VelocityDeadband = 0.01

// Track models a train on a straight incline: control force, Coulomb
// friction and the down-slope gravity component.
type Track struct {
	Mass     float64
	Gravity  float64
	Friction float64
	sin, cos float64
}

// Forces is the breakdown of the forces along the track.
type Forces struct {
	Normal   float64
	Control  float64
	Friction float64
	Gravity  float64
	Net      float64
}

func NewTrack(sc dynamo.Scenario) (*Track, error) {
	angle := sc.Angle()
	cos := math.Cos(angle)
	if math.Abs(cos) < dynamo.CosEpsilon {
		return nil, fmt.Errorf("%w: normal force undefined at %g deg", dynamo.ErrNumericDegenerate, sc.AngleDeg)
	}
	if sc.Mass <= 0 {
		return nil, fmt.Errorf("%w: mass must be positive, got %g", dynamo.ErrInvalidConfig, sc.Mass)
	}
	return &Track{
		Mass:     sc.Mass,
		Gravity:  sc.Gravity,
		Friction: sc.Friction,
		sin:      math.Sin(angle),
		cos:      cos,
	}, nil
}

func (tr *Track) Forces(v, control float64) Forces {
	f := Forces{
		Normal:  tr.Mass * tr.Gravity * tr.cos,
		Control: control,
		Gravity: -tr.Mass * tr.Gravity * tr.sin,
	}
	if math.Abs(v) > VelocityDeadband {
		f.Friction = -tr.Friction * f.Normal * sign(v)
	}
	f.Net = f.Control + f.Friction + f.Gravity
	return f
}

func (tr *Track) Acceleration(v, control float64) float64 {
	return tr.Forces(v, control).Net / tr.Mass
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
