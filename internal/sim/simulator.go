package sim

import (
	"fmt"

	"github.com/san-kum/catchsim/internal/catch"
	"github.com/san-kum/catchsim/internal/control"
	"github.com/san-kum/catchsim/internal/dynamo"
	"github.com/san-kum/catchsim/internal/integrators"
	"github.com/san-kum/catchsim/internal/logging"
	"github.com/san-kum/catchsim/internal/physics"
	"go.uber.org/zap"
)

type Simulator struct {
	scenario  dynamo.Scenario
	metrics   []dynamo.Metric
	observers []dynamo.Observer
	log       *zap.Logger
}

func New(sc dynamo.Scenario) *Simulator {
	return &Simulator{
		scenario:  sc,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
		log:       zap.NewNop(),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l *zap.Logger) { s.log = logging.OrNop(l) }

func (s *Simulator) Scenario() dynamo.Scenario { return s.scenario }

// Run steps the scenario from t=0 for its full duration and hands the
// records to sink. It never stops early: a catch or miss only changes the
// reported ball height. A nil sink skips persistence.
func (s *Simulator) Run(sink dynamo.Sink) (*Result, error) {
	sc := s.scenario
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	ball := physics.NewBall(sc)
	track, err := physics.NewTrack(sc)
	if err != nil {
		return nil, err
	}
	pid := control.NewPID(sc.Kp, sc.Ki, sc.Kd, sc.InitialError())
	eval := catch.New(ball.X, ball.LandingY())
	integ := integrators.NewSemiImplicitEuler()

	for _, m := range s.metrics {
		m.Reset()
	}

	steps := sc.Steps()
	records := make([]dynamo.Record, 0, steps)
	x := dynamo.State{S: sc.TrainX0}

	s.log.Debug("simulation started",
		zap.Float64("angle", sc.AngleDeg),
		zap.Float64("ball_x", sc.BallX),
		zap.Float64("train_x0", sc.TrainX0),
		zap.Int("steps", steps),
	)

	for i := 0; i < steps; i++ {
		x.T = float64(i) * sc.Dt
		x.BallY = ball.Height(x.T)
		x.Err = ball.X - x.S
		x.ErrIntegral = pid.Integral()

		force, err := pid.Step(x.Err, sc.Dt)
		if err != nil {
			return nil, &dynamo.SimulationError{Step: i, Time: x.T, Wrapped: err}
		}
		x.Force = force
		x.ErrDerivative = pid.Derivative()
		x.A = track.Acceleration(x.V, force)

		before := eval.Status()
		if status := eval.Observe(i, x.T, x.S, x.BallY); status != before {
			s.log.Info("catch classified",
				zap.Stringer("status", status),
				zap.Float64("t", x.T),
				zap.Float64("distance", eval.Outcome().Distance),
			)
		}
		x.BallY = eval.Height(x.BallY)

		if !x.IsValid() {
			return nil, &dynamo.SimulationError{Step: i, Time: x.T, Wrapped: dynamo.ErrNumericDegenerate}
		}

		rec := x.Record()
		records = append(records, rec)
		for _, m := range s.metrics {
			m.Observe(rec)
		}
		for _, obs := range s.observers {
			obs.OnRecord(i, rec)
		}

		if i < steps-1 {
			x.S, x.V = integ.Step(x.S, x.V, x.A, sc.Dt)
		}
	}

	result := &Result{
		Scenario:    sc,
		Records:     records,
		Outcome:     eval.Outcome(),
		LandingY:    ball.LandingY(),
		LandingTime: ball.LandingTime(),
		Metrics:     make(map[string]float64),
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if sink != nil {
		if err := sink.Write(records); err != nil {
			return nil, fmt.Errorf("%w: %w", dynamo.ErrSinkFailure, err)
		}
	}

	s.log.Debug("simulation finished",
		zap.Stringer("status", result.Outcome.Status),
		zap.Int("records", len(records)),
		zap.Int("transitions", eval.Transitions()),
	)

	return result, nil
}
