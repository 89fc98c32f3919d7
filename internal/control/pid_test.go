package control

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/catchsim/internal/dynamo"
)

func TestPIDSeededDerivative(t *testing.T) {
	ctrl := NewPID(45, 0.5, 25, 60)

	u, err := ctrl.Step(60, 0.02)
	if err != nil {
		t.Fatal(err)
	}
	if ctrl.Derivative() != 0 {
		t.Errorf("expected zero derivative on first step, got %f", ctrl.Derivative())
	}

	expected := 45*60 + 0.5*60*0.02
	if math.Abs(u-expected) > 1e-9 {
		t.Errorf("expected force %f, got %f", expected, u)
	}
}

func TestPIDTerms(t *testing.T) {
	ctrl := NewPID(2, 1, 0.5, 10)

	if _, err := ctrl.Step(10, 0.1); err != nil {
		t.Fatal(err)
	}
	u, err := ctrl.Step(8, 0.1)
	if err != nil {
		t.Fatal(err)
	}

	integral := 10*0.1 + 8*0.1
	derivative := (8.0 - 10.0) / 0.1
	if math.Abs(ctrl.Integral()-integral) > 1e-12 {
		t.Errorf("integral = %f, want %f", ctrl.Integral(), integral)
	}
	if math.Abs(ctrl.Derivative()-derivative) > 1e-9 {
		t.Errorf("derivative = %f, want %f", ctrl.Derivative(), derivative)
	}
	expected := 2*8 + 1*integral + 0.5*derivative
	if math.Abs(u-expected) > 1e-9 {
		t.Errorf("force = %f, want %f", u, expected)
	}
}

func TestPIDNoSaturation(t *testing.T) {
	ctrl := NewPID(500, 50, 200, 1e6)
	u, err := ctrl.Step(1e6, 0.02)
	if err != nil {
		t.Fatal(err)
	}
	if u < 5e8 {
		t.Errorf("expected unclamped force, got %f", u)
	}
}

func TestPIDInvalidDt(t *testing.T) {
	ctrl := NewPID(1, 1, 1, 0)
	for _, dt := range []float64{0, -0.01} {
		if _, err := ctrl.Step(1, dt); !errors.Is(err, dynamo.ErrInvalidConfig) {
			t.Errorf("dt=%g: expected ErrInvalidConfig, got %v", dt, err)
		}
	}
	if ctrl.Integral() != 0 {
		t.Error("rejected step must not change the integral")
	}
}

func TestPIDReset(t *testing.T) {
	ctrl := NewPID(1, 1, 1, 5)
	ctrl.Step(3, 0.1)
	ctrl.Reset()

	if ctrl.Integral() != 0 || ctrl.Derivative() != 0 {
		t.Error("reset should clear integral and derivative")
	}
	ctrl.Step(5, 0.1)
	if ctrl.Derivative() != 0 {
		t.Errorf("reset should restore the seed, derivative = %f", ctrl.Derivative())
	}
}
