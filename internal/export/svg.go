// Package export renders runs as standalone SVG documents.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/catchsim/internal/catch"
	"github.com/san-kum/catchsim/internal/dataset"
	"github.com/san-kum/catchsim/internal/dynamo"
	"github.com/san-kum/catchsim/internal/physics"
	"github.com/san-kum/catchsim/internal/viz"
)

const (
	background = "#0a0a0a"
	trainColor = "#00ff88"
	ballColor  = "#00ccff"
	trackColor = "#888899"
	textColor  = "#ffffff"
)

type Point struct {
	X, Y float64
}

func StatusColor(s catch.Status) string {
	switch s {
	case catch.Caught:
		return "#00ff88"
	case catch.Missed:
		return "#ff4444"
	default:
		return "#ffaa00"
	}
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.PixelSize()
	width := float64(w) * scale
	height := float64(h) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, background, color)

	dotRadius := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// frame maps world coordinates into a pixel rectangle, y up.
type frame struct {
	x, y, w, h             float64
	minX, maxX, minY, maxY float64
}

func newFrame(x, y, w, h float64, pts []Point) frame {
	f := frame{x: x, y: y, w: w, h: h}
	f.minX, f.maxX = pts[0].X, pts[0].X
	f.minY, f.maxY = pts[0].Y, pts[0].Y
	for _, p := range pts {
		f.minX = math.Min(f.minX, p.X)
		f.maxX = math.Max(f.maxX, p.X)
		f.minY = math.Min(f.minY, p.Y)
		f.maxY = math.Max(f.maxY, p.Y)
	}

	rangeX := f.maxX - f.minX
	rangeY := f.maxY - f.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	f.minX -= rangeX * 0.05
	f.maxX += rangeX * 0.05
	f.minY -= rangeY * 0.1
	f.maxY += rangeY * 0.1
	return f
}

func (f frame) px(p Point) (float64, float64) {
	x := f.x + (p.X-f.minX)/(f.maxX-f.minX)*f.w
	y := f.y + f.h - (p.Y-f.minY)/(f.maxY-f.minY)*f.h
	return x, y
}

func (f frame) path(pts []Point) string {
	var sb strings.Builder
	for i, p := range pts {
		x, y := f.px(p)
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	return sb.String()
}

// TrajectoryToSVG creates an SVG from trajectory data
func TrajectoryToSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	f := newFrame(0, 0, float64(width), float64(height), points)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
</svg>`, width, height, width, height, background, strokeColor, f.path(points))
	return sb.String()
}

// RunToSVG draws a run in two panels: the scene with the track, the ball's
// drop and the train's start and end positions on top, and train position,
// ball height and ball x against time below.
func RunToSVG(title string, table *dataset.Table, sc dynamo.Scenario, outcome catch.Outcome, width, height int) string {
	if table.Len() < 2 {
		return ""
	}
	angle := sc.Angle()
	landing := physics.SurfaceHeight(sc.BallX, angle)
	last := table.Records[table.Len()-1]

	W, H := float64(width), float64(height)
	panelH := (H - 60) / 2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="monospace" font-size="12">
<rect width="100%%" height="100%%" fill="%s"/>
<text x="10" y="18" fill="%s">%s</text>
<text x="%.0f" y="18" fill="%s" text-anchor="end">%s</text>
`, width, height, width, height, background, textColor, title, W-10, StatusColor(outcome.Status), strings.ToUpper(outcome.Status.String()))

	// scene
	maxX := math.Max(sc.BallX, sc.TrainX0)
	for _, r := range table.Records {
		maxX = math.Max(maxX, r.TrainPosition)
	}
	maxX += 5
	trackEnd := Point{maxX, physics.SurfaceHeight(maxX, angle)}
	scene := newFrame(10, 30, W-20, panelH, []Point{{0, 0}, trackEnd, {sc.BallX, sc.BallY0}, {sc.BallX, landing}})

	fmt.Fprintf(&sb, "<path stroke=\"%s\" stroke-width=\"2\" d=\"%s\"/>\n", trackColor, scene.path([]Point{{0, 0}, trackEnd}))
	fmt.Fprintf(&sb, "<path stroke=\"%s\" stroke-dasharray=\"4 4\" d=\"%s\"/>\n", ballColor, scene.path([]Point{{sc.BallX, sc.BallY0}, {sc.BallX, landing}}))

	bx, by := scene.px(Point{sc.BallX, sc.BallY0})
	fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"4\" fill=\"%s\"/>\n", bx, by, ballColor)
	lx, ly := scene.px(Point{sc.BallX, landing})
	fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"5\" fill=\"none\" stroke=\"%s\" stroke-width=\"2\"/>\n", lx, ly, StatusColor(outcome.Status))

	sx, sy := scene.px(Point{sc.TrainX0, physics.SurfaceHeight(sc.TrainX0, angle)})
	fmt.Fprintf(&sb, "<rect x=\"%.1f\" y=\"%.1f\" width=\"12\" height=\"6\" fill=\"none\" stroke=\"%s\"/>\n", sx-6, sy-6, trainColor)
	ex, ey := scene.px(Point{last.TrainPosition, physics.SurfaceHeight(last.TrainPosition, angle)})
	fmt.Fprintf(&sb, "<rect x=\"%.1f\" y=\"%.1f\" width=\"12\" height=\"6\" fill=\"%s\"/>\n", ex-6, ey-6, trainColor)

	// time series
	train := make([]Point, table.Len())
	ball := make([]Point, table.Len())
	for i, r := range table.Records {
		train[i] = Point{r.Time, r.TrainPosition}
		ball[i] = Point{r.Time, r.BallHeight}
	}
	target := []Point{{table.Records[0].Time, sc.BallX}, {last.Time, sc.BallX}}

	all := append(append(append([]Point{}, train...), ball...), target...)
	chart := newFrame(10, 50+panelH, W-20, panelH, all)

	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-dasharray=\"6 3\" d=\"%s\"/>\n", StatusColor(catch.Missed), chart.path(target))
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"%s\"/>\n", ballColor, chart.path(ball))
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"%s\"/>\n", trainColor, chart.path(train))

	if outcome.Status.Terminal() {
		top := Point{outcome.Time, chart.maxY}
		bottom := Point{outcome.Time, chart.minY}
		fmt.Fprintf(&sb, "<path stroke=\"%s\" d=\"%s\"/>\n", StatusColor(outcome.Status), chart.path([]Point{top, bottom}))
	}

	fmt.Fprintf(&sb, "<text x=\"10\" y=\"%.0f\" fill=\"%s\">train position</text>\n", H-8, trainColor)
	fmt.Fprintf(&sb, "<text x=\"130\" y=\"%.0f\" fill=\"%s\">ball height</text>\n", H-8, ballColor)
	fmt.Fprintf(&sb, "<text x=\"230\" y=\"%.0f\" fill=\"%s\">ball x</text>\n", H-8, StatusColor(catch.Missed))

	sb.WriteString("</svg>")
	return sb.String()
}
