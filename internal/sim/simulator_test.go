package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/catchsim/internal/catch"
	"github.com/san-kum/catchsim/internal/dynamo"
)

type countingMetric struct {
	count int
	sum   float64
}

func (c *countingMetric) Name() string { return "count" }
func (c *countingMetric) Observe(r dynamo.Record) {
	c.count++
	c.sum += r.Force
}
func (c *countingMetric) Value() float64 { return float64(c.count) }
func (c *countingMetric) Reset() {
	c.count = 0
	c.sum = 0
}

type recordingObserver struct {
	steps []int
}

func (o *recordingObserver) OnRecord(step int, r dynamo.Record) {
	o.steps = append(o.steps, step)
}

func TestSimulatorConcreteScenario(t *testing.T) {
	sc := dynamo.DefaultScenario()

	var written []dynamo.Record
	sink := dynamo.SinkFunc(func(records []dynamo.Record) error {
		written = records
		return nil
	})

	result, err := New(sc).Run(sink)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Records) != 2000 {
		t.Errorf("expected 2000 records, got %d", len(result.Records))
	}
	if len(written) != len(result.Records) {
		t.Errorf("sink received %d records, want %d", len(written), len(result.Records))
	}
	if math.Abs(result.LandingY-40.41) > 0.01 {
		t.Errorf("expected landing height ~40.41, got %f", result.LandingY)
	}
	if math.Abs(result.LandingTime-3.49) > 0.01 {
		t.Errorf("expected landing time ~3.49s, got %f", result.LandingTime)
	}
	if !result.Outcome.Status.Terminal() {
		t.Fatalf("expected a terminal classification, got %s", result.Outcome.Status)
	}
	if result.Outcome.Time > result.LandingTime+sc.Dt {
		t.Errorf("classification at t=%f is later than the landing at %f", result.Outcome.Time, result.LandingTime)
	}

	last := result.Records[len(result.Records)-1]
	if math.Abs(last.Time-39.98) > 1e-9 {
		t.Errorf("expected last record at t=39.98, got %f", last.Time)
	}
}

func TestSimulatorInitialRecord(t *testing.T) {
	sc := dynamo.DefaultScenario()
	result, err := New(sc).Run(nil)
	if err != nil {
		t.Fatal(err)
	}

	first := result.Records[0]
	if first.Time != 0 {
		t.Errorf("expected t=0, got %f", first.Time)
	}
	if first.TrainPosition != sc.TrainX0 {
		t.Errorf("expected train at %f, got %f", sc.TrainX0, first.TrainPosition)
	}
	if first.BallHeight != sc.BallY0 {
		t.Errorf("expected ball at %f, got %f", sc.BallY0, first.BallHeight)
	}
	if first.ErrIntegral != 0 {
		t.Errorf("expected zero error integral at t=0, got %f", first.ErrIntegral)
	}
	if first.ErrDerivative != 0 {
		t.Errorf("expected zero error derivative at t=0, got %f", first.ErrDerivative)
	}
	if first.Velocity != 0 {
		t.Errorf("expected train at rest, got %f", first.Velocity)
	}

	e0 := sc.InitialError()
	expectedForce := sc.Kp*e0 + sc.Ki*e0*sc.Dt
	if math.Abs(first.Force-expectedForce) > 1e-9 {
		t.Errorf("expected initial force %f, got %f", expectedForce, first.Force)
	}

	second := result.Records[1]
	if math.Abs(second.ErrIntegral-e0*sc.Dt) > 1e-9 {
		t.Errorf("expected integral %f at second record, got %f", e0*sc.Dt, second.ErrIntegral)
	}
}

func TestSimulatorSemiImplicitUpdate(t *testing.T) {
	sc := dynamo.DefaultScenario()
	result, err := New(sc).Run(nil)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i < 50; i++ {
		prev, cur := result.Records[i-1], result.Records[i]
		v := prev.Velocity + prev.Acceleration*sc.Dt
		s := prev.TrainPosition + v*sc.Dt
		if s < 0 {
			s, v = 0, 0
		}
		if math.Abs(cur.Velocity-v) > 1e-9 || math.Abs(cur.TrainPosition-s) > 1e-9 {
			t.Fatalf("step %d: got (s=%f, v=%f), want (s=%f, v=%f)", i, cur.TrainPosition, cur.Velocity, s, v)
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dynamo.Scenario)
		want   error
	}{
		{"zero dt", func(s *dynamo.Scenario) { s.Dt = 0 }, dynamo.ErrInvalidConfig},
		{"negative dt", func(s *dynamo.Scenario) { s.Dt = -0.1 }, dynamo.ErrInvalidConfig},
		{"zero mass", func(s *dynamo.Scenario) { s.Mass = 0 }, dynamo.ErrInvalidConfig},
		{"train past ball", func(s *dynamo.Scenario) { s.TrainX0 = 80 }, dynamo.ErrInvalidConfig},
		{"vertical track", func(s *dynamo.Scenario) { s.AngleDeg = -90 }, dynamo.ErrNumericDegenerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := dynamo.DefaultScenario()
			tt.mutate(&sc)

			called := false
			sink := dynamo.SinkFunc(func([]dynamo.Record) error {
				called = true
				return nil
			})

			result, err := New(sc).Run(sink)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if result != nil {
				t.Error("expected no result")
			}
			if called {
				t.Error("sink must not be called when the run does not start")
			}
		})
	}
}

func TestSimulatorSinkFailure(t *testing.T) {
	diskFull := errors.New("disk full")
	sink := dynamo.SinkFunc(func([]dynamo.Record) error { return diskFull })

	result, err := New(dynamo.DefaultScenario()).Run(sink)
	if !errors.Is(err, dynamo.ErrSinkFailure) {
		t.Errorf("expected ErrSinkFailure, got %v", err)
	}
	if !errors.Is(err, diskFull) {
		t.Errorf("expected the sink error to be wrapped, got %v", err)
	}
	if result != nil {
		t.Error("no result should be returned on sink failure")
	}
}

func TestSimulatorMetricsAndObservers(t *testing.T) {
	sc := dynamo.DefaultScenario()
	sc.Duration = 1.0
	sc.Dt = 0.1

	s := New(sc)
	metric := &countingMetric{}
	obs := &recordingObserver{}
	s.AddMetric(metric)
	s.AddObserver(obs)

	result, err := s.Run(nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Metrics["count"] != 10 {
		t.Errorf("expected 10 observations, got %f", result.Metrics["count"])
	}
	if len(obs.steps) != 10 || obs.steps[9] != 9 {
		t.Errorf("unexpected observer steps %v", obs.steps)
	}

	// metrics are reset between runs
	if _, err := s.Run(nil); err != nil {
		t.Fatal(err)
	}
	if metric.count != 10 {
		t.Errorf("expected metric reset before second run, got %d observations", metric.count)
	}
}

func TestSimulatorShortRunStaysPending(t *testing.T) {
	sc := dynamo.DefaultScenario()
	sc.Duration = 1.0

	result, err := New(sc).Run(nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome.Status != catch.Pending {
		t.Errorf("ball is still falling at t=1s, got %s", result.Outcome.Status)
	}
	if len(result.Records) != 50 {
		t.Errorf("expected 50 records, got %d", len(result.Records))
	}
}

func TestSimulatorTrainNeverLeavesTrack(t *testing.T) {
	sc := dynamo.DefaultScenario()
	sc.AngleDeg = 45
	sc.Kp, sc.Ki, sc.Kd = 0, 0, 0
	sc.TrainX0 = 5

	result, err := New(sc).Run(nil)
	if err != nil {
		t.Fatal(err)
	}

	reachedOrigin := false
	for _, r := range result.Records {
		if r.TrainPosition < 0 {
			t.Fatalf("train left the track at t=%f: %f", r.Time, r.TrainPosition)
		}
		if r.TrainPosition == 0 {
			reachedOrigin = true
			if r.Velocity != 0 {
				t.Fatalf("train at origin must be at rest, got v=%f", r.Velocity)
			}
		}
	}
	if !reachedOrigin {
		t.Error("uncontrolled train should slide down to the origin")
	}
	if result.Caught() {
		t.Error("uncontrolled train should not catch the ball")
	}
}
