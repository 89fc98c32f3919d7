package viz

import (
	"math"

	"github.com/san-kum/catchsim/internal/dynamo"
	"github.com/san-kum/catchsim/internal/physics"
)

const (
	sceneMargin = 5.0
	trainLength = 4.0
)

// SceneViewport frames the whole run: the track from the origin past the
// furthest point reached and the ball from its release height down to
// the lower of the origin and its landing point.
func SceneViewport(c *Canvas, sc dynamo.Scenario, records []dynamo.Record) Viewport {
	maxX := math.Max(sc.BallX, sc.TrainX0)
	for _, r := range records {
		maxX = math.Max(maxX, r.TrainPosition)
	}
	maxX += sceneMargin

	angle := sc.Angle()
	trackTop := physics.SurfaceHeight(maxX, angle)
	minY := math.Min(0, trackTop) - sceneMargin
	maxY := math.Max(sc.BallY0, trackTop) + sceneMargin

	return c.Viewport(-sceneMargin, maxX, minY, maxY)
}

// DrawScene draws the track, the ball's drop line, the ball and the train
// for one record.
func DrawScene(c *Canvas, v Viewport, sc dynamo.Scenario, r dynamo.Record) {
	angle := sc.Angle()

	x0, y0 := v.Map(0, 0)
	x1, y1 := v.Map(v.MaxX, physics.SurfaceHeight(v.MaxX, angle))
	c.DrawLine(x0, y0, x1, y1)

	landing := physics.SurfaceHeight(sc.BallX, angle)
	for y := landing; y < r.BallHeight; y += (v.MaxY - v.MinY) / float64(v.H) * 3 {
		px, py := v.Map(sc.BallX, y)
		c.Set(px, py)
	}

	bx, by := v.Map(sc.BallX, r.BallHeight)
	c.FillRect(bx-1, by-2, bx+1, by)

	// train body sits on the track, centred on its position
	cos, sin := math.Cos(angle), math.Sin(angle)
	half := trainLength / 2
	ax, ay := v.Map(r.TrainPosition-half*cos, physics.SurfaceHeight(r.TrainPosition, angle)-half*sin)
	bx2, by2 := v.Map(r.TrainPosition+half*cos, physics.SurfaceHeight(r.TrainPosition, angle)+half*sin)
	for lift := 1; lift <= 3; lift++ {
		c.DrawLine(ax, ay-lift, bx2, by2-lift)
	}
}
