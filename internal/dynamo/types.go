package dynamo

import (
	"fmt"
	"math"
)

// CosEpsilon is the smallest |cos(angle)| for which the normal force, and
// with it the friction force, is considered defined.
const CosEpsilon = 1e-12

// Scenario is the immutable input of one run. It is passed by value.
type Scenario struct {
	AngleDeg float64 `json:"angle"`
	BallX    float64 `json:"ball_x"`
	BallY0   float64 `json:"ball_y0"`
	TrainX0  float64 `json:"train_x0"`
	Duration float64 `json:"duration"`
	Dt       float64 `json:"dt"`
	Kp       float64 `json:"kp"`
	Ki       float64 `json:"ki"`
	Kd       float64 `json:"kd"`
	Mass     float64 `json:"mass"`
	Gravity  float64 `json:"gravity"`
	Friction float64 `json:"friction"`
}

func DefaultScenario() Scenario {
	return Scenario{
		AngleDeg: 30,
		BallX:    70,
		BallY0:   100,
		TrainX0:  10,
		Duration: 40,
		Dt:       0.02,
		Kp:       45,
		Ki:       0.5,
		Kd:       25,
		Mass:     10,
		Gravity:  9.81,
		Friction: 0.1,
	}
}

// Angle returns the track inclination in radians.
func (s Scenario) Angle() float64 {
	return s.AngleDeg * math.Pi / 180
}

// Steps is the number of records a run emits. The small bias absorbs
// representation error, so 40/0.02 yields 2000 rather than 1999.
func (s Scenario) Steps() int {
	if s.Dt <= 0 {
		return 0
	}
	return int(math.Floor(s.Duration/s.Dt + 1e-9))
}

// InitialError is the tracking error at t=0; it seeds the controller.
func (s Scenario) InitialError() float64 {
	return s.BallX - s.TrainX0
}

type field struct {
	name  string
	value float64
}

func (s Scenario) fields() []field {
	return []field{
		{"angle", s.AngleDeg}, {"ball_x", s.BallX}, {"ball_y0", s.BallY0}, {"train_x0", s.TrainX0},
		{"duration", s.Duration}, {"dt", s.Dt}, {"kp", s.Kp}, {"ki", s.Ki}, {"kd", s.Kd},
		{"mass", s.Mass}, {"gravity", s.Gravity}, {"friction", s.Friction},
	}
}

// GetParams returns the scenario fields by their file names.
func (s Scenario) GetParams() map[string]float64 {
	out := make(map[string]float64, 12)
	for _, f := range s.fields() {
		out[f.name] = f.value
	}
	return out
}

// SetParam sets one field by its file name. The result is not validated.
func (s *Scenario) SetParam(name string, value float64) error {
	switch name {
	case "angle":
		s.AngleDeg = value
	case "ball_x":
		s.BallX = value
	case "ball_y0":
		s.BallY0 = value
	case "train_x0":
		s.TrainX0 = value
	case "duration":
		s.Duration = value
	case "dt":
		s.Dt = value
	case "kp":
		s.Kp = value
	case "ki":
		s.Ki = value
	case "kd":
		s.Kd = value
	case "mass":
		s.Mass = value
	case "gravity":
		s.Gravity = value
	case "friction":
		s.Friction = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

// Validate reports ErrInvalidConfig or ErrNumericDegenerate. A scenario that
// passes is safe to hand to the simulator.
func (s Scenario) Validate() error {
	for _, f := range s.fields() {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return invalid("%s must be finite, got %v", f.name, f.value)
		}
	}
	switch {
	case s.Dt <= 0:
		return invalid("dt must be positive, got %g", s.Dt)
	case s.Duration <= 0:
		return invalid("duration must be positive, got %g", s.Duration)
	case s.Steps() < 1:
		return invalid("duration %g is shorter than one step of %g", s.Duration, s.Dt)
	case s.Mass <= 0:
		return invalid("mass must be positive, got %g", s.Mass)
	case s.Gravity <= 0:
		return invalid("gravity must be positive, got %g", s.Gravity)
	case s.Friction < 0:
		return invalid("friction coefficient must be non-negative, got %g", s.Friction)
	case s.TrainX0 < 0:
		return invalid("train_x0 must be on the track (>= 0), got %g", s.TrainX0)
	case s.TrainX0 >= s.BallX:
		return invalid("train_x0 (%g) must be less than ball_x (%g)", s.TrainX0, s.BallX)
	}
	if math.Abs(math.Cos(s.Angle())) < CosEpsilon {
		return fmt.Errorf("%w: cos(%g deg) is zero, normal force undefined", ErrNumericDegenerate, s.AngleDeg)
	}
	return nil
}

// State is the single mutable working value of a run.
type State struct {
	T             float64
	S             float64
	V             float64
	A             float64
	BallY         float64
	Force         float64
	Err           float64
	ErrIntegral   float64
	ErrDerivative float64
}

func (s State) IsValid() bool {
	for _, v := range [...]float64{s.T, s.S, s.V, s.A, s.BallY, s.Force, s.Err, s.ErrIntegral, s.ErrDerivative} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Record() Record {
	return Record{
		Time:          s.T,
		TrainPosition: s.S,
		BallHeight:    s.BallY,
		Force:         s.Force,
		Velocity:      s.V,
		Acceleration:  s.A,
		ErrDerivative: s.ErrDerivative,
		ErrIntegral:   s.ErrIntegral,
	}
}

// Record is one dataset row. Field order matches the column order of the
// full dataset schema.
type Record struct {
	Time          float64 `json:"time"`
	TrainPosition float64 `json:"train_position"`
	BallHeight    float64 `json:"falling_object_position"`
	Force         float64 `json:"applied_force"`
	Velocity      float64 `json:"train_velocity"`
	Acceleration  float64 `json:"train_acceleration"`
	ErrDerivative float64 `json:"error_derivative"`
	ErrIntegral   float64 `json:"error_integral"`
}

// Values returns the record in column order.
func (r Record) Values() []float64 {
	return []float64{r.Time, r.TrainPosition, r.BallHeight, r.Force, r.Velocity, r.Acceleration, r.ErrDerivative, r.ErrIntegral}
}

// Sink receives the ordered record sequence of a finished run.
type Sink interface {
	Write(records []Record) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(records []Record) error

func (f SinkFunc) Write(records []Record) error { return f(records) }

type Metric interface {
	Name() string
	Observe(r Record)
	Value() float64
	Reset()
}

type Observer interface {
	OnRecord(step int, r Record)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
