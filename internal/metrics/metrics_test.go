package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/catchsim/internal/catch"
	"github.com/san-kum/catchsim/internal/dynamo"
	"github.com/san-kum/catchsim/internal/sim"
)

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	m.Observe(dynamo.Record{Force: 10})
	m.Observe(dynamo.Record{Force: -20})

	if math.Abs(m.Value()-15) > 1e-12 {
		t.Errorf("expected mean force 15, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero effort after reset")
	}
}

func TestPeak(t *testing.T) {
	m := NewMaxVelocity()
	for _, v := range []float64{1, -4, 3} {
		m.Observe(dynamo.Record{Velocity: v})
	}
	if m.Value() != 4 {
		t.Errorf("expected peak 4, got %f", m.Value())
	}
	if m.Name() != "max_velocity" {
		t.Errorf("unexpected name %q", m.Name())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero peak after reset")
	}
}

func TestTracking(t *testing.T) {
	initial := NewInitialDistance(70)
	final := NewFinalError(70)

	for _, s := range []float64{10, 50, 69} {
		r := dynamo.Record{TrainPosition: s}
		initial.Observe(r)
		final.Observe(r)
	}

	if initial.Value() != 60 {
		t.Errorf("expected initial distance 60, got %f", initial.Value())
	}
	if final.Value() != 1 {
		t.Errorf("expected final error 1, got %f", final.Value())
	}
}

func TestMetricsOnRun(t *testing.T) {
	sc := dynamo.DefaultScenario()
	s := sim.New(sc)
	for _, m := range Default(sc) {
		s.AddMetric(m)
	}

	res, err := s.Run(nil)
	if err != nil {
		t.Fatal(err)
	}

	got := Collect(res)
	if got["initial_distance"] != 60 {
		t.Errorf("expected initial distance 60, got %f", got["initial_distance"])
	}
	if got["max_force"] < 45*60 {
		t.Errorf("peak force should be at least the initial proportional term, got %f", got["max_force"])
	}
	if math.Abs(got[LandingTime]-res.LandingTime) > 1e-12 {
		t.Errorf("landing time mismatch")
	}

	if res.Caught() {
		if got[Caught] != 1 || got[CatchDistance] >= catch.HorizontalTolerance {
			t.Errorf("unexpected catch metrics %v", got)
		}
	} else if _, ok := got[CatchTime]; ok {
		t.Error("catch_time must be omitted for a missed run")
	}
}

func TestSummarize(t *testing.T) {
	runs := []map[string]float64{
		{Caught: 1, CatchTime: 3, CatchDistance: 1, "final_error": 0.5},
		{Caught: 1, CatchTime: 5, CatchDistance: 2, "final_error": 0.5},
		{Caught: 0, "final_error": 2},
		{Caught: 0, "final_error": 1},
	}

	s := Summarize(runs)
	if s.Runs != 4 || s.Caught != 2 {
		t.Fatalf("unexpected counts %+v", s)
	}
	if s.SuccessRate != 0.5 {
		t.Errorf("expected success rate 0.5, got %f", s.SuccessRate)
	}
	if s.MeanCatchTime != 4 {
		t.Errorf("expected mean catch time 4, got %f", s.MeanCatchTime)
	}
	if s.MeanCatchDistance != 1.5 {
		t.Errorf("expected mean catch distance 1.5, got %f", s.MeanCatchDistance)
	}
	if s.MeanFinalError != 1 {
		t.Errorf("expected mean final error 1, got %f", s.MeanFinalError)
	}

	empty := Summarize(nil)
	if empty.Runs != 0 || empty.SuccessRate != 0 {
		t.Errorf("empty batch should summarize to zero, got %+v", empty)
	}
}

func TestNames(t *testing.T) {
	names := Names([]map[string]float64{{"b": 1, "a": 2}, {"c": 3}})
	if len(names) != 3 || names[0] != "a" || names[2] != "c" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestArrival(t *testing.T) {
	m := NewArrivalTime(70)
	m.Observe(dynamo.Record{Time: 0, TrainPosition: 10})
	if m.Value() != -1 {
		t.Errorf("expected -1 before arrival, got %f", m.Value())
	}

	m.Observe(dynamo.Record{Time: 2, TrainPosition: 68.5})
	m.Observe(dynamo.Record{Time: 3, TrainPosition: 70})
	if m.Value() != 2 {
		t.Errorf("expected arrival at t=2, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != -1 {
		t.Error("expected reset to clear arrival")
	}
}

func TestGroups(t *testing.T) {
	mk := func(angle, ballX, trainX, caught float64) Run {
		sc := dynamo.DefaultScenario()
		sc.AngleDeg, sc.BallX, sc.TrainX0 = angle, ballX, trainX
		return Run{Scenario: sc, Metrics: map[string]float64{Caught: caught}}
	}
	runs := []Run{
		mk(30, 70, 60, 1),
		mk(30, 70, 10, 0),
		mk(0, 50, 45, 1),
		mk(45, 95, 0, 0),
	}

	byAngle := ByAngle(runs)
	if len(byAngle) != 3 || byAngle[0].Label != "0°" || byAngle[2].Label != "45°" {
		t.Fatalf("unexpected angle groups %+v", byAngle)
	}
	if byAngle[1].Summary.Runs != 2 || byAngle[1].Summary.SuccessRate != 0.5 {
		t.Errorf("unexpected 30° summary %+v", byAngle[1].Summary)
	}

	byDist := ByDistance(runs, DistanceBins)
	if len(byDist) != 3 {
		t.Fatalf("expected 3 non-empty bins, got %+v", byDist)
	}
	if byDist[0].Label != "0-20m" || byDist[0].Summary.Caught != 2 {
		t.Errorf("unexpected first bin %+v", byDist[0])
	}
	if byDist[2].Label != "80-100m" || byDist[2].Summary.Runs != 1 {
		t.Errorf("unexpected last bin %+v", byDist[2])
	}
}

func TestGroupsNegativeAngles(t *testing.T) {
	at := func(angle float64) Run {
		sc := dynamo.DefaultScenario()
		sc.AngleDeg = angle
		return Run{Scenario: sc, Metrics: map[string]float64{Caught: 1}}
	}

	groups := ByAngle([]Run{at(-5.4), at(-4.6), at(-0.4), at(0.4)})
	if len(groups) != 2 {
		t.Fatalf("expected 2 angle groups, got %+v", groups)
	}
	if groups[0].Label != "-5°" || groups[0].Summary.Runs != 2 {
		t.Errorf("unexpected first group %+v", groups[0])
	}
	if groups[1].Label != "0°" || groups[1].Summary.Runs != 2 {
		t.Errorf("unexpected second group %+v", groups[1])
	}
}
