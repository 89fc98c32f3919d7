package physics

import (
	"math"

	"github.com/san-kum/catchsim/internal/dynamo"
)

// Ball falls vertically at a fixed horizontal position and stops at the
// track surface below it.
type Ball struct {
	X        float64
	Y0       float64
	Gravity  float64
	landingY float64
}

func NewBall(sc dynamo.Scenario) Ball {
	return Ball{
		X:        sc.BallX,
		Y0:       sc.BallY0,
		Gravity:  sc.Gravity,
		landingY: SurfaceHeight(sc.BallX, sc.Angle()),
	}
}

// LandingY is the height of the track directly below the ball.
func (b Ball) LandingY() float64 {
	return b.landingY
}

// FreeHeight is the unconstrained free-fall height y0 - g*t^2/2.
func (b Ball) FreeHeight(t float64) float64 {
	return b.Y0 - 0.5*b.Gravity*t*t
}

// Height is FreeHeight clamped to the landing surface.
func (b Ball) Height(t float64) float64 {
	y := b.FreeHeight(t)
	if y <= b.landingY {
		return b.landingY
	}
	return y
}

// LandingTime is the instant the ball reaches the surface, 0 if it starts
// on or below it.
func (b Ball) LandingTime() float64 {
	drop := b.Y0 - b.landingY
	if drop <= 0 {
		return 0
	}
	return math.Sqrt(2 * drop / b.Gravity)
}

// SurfaceHeight is the height of a straight track through the origin at
// horizontal position x.
func SurfaceHeight(x, angle float64) float64 {
	return x * math.Tan(angle)
}
