package metrics

import (
	"math"

	"github.com/san-kum/catchsim/internal/dynamo"
)

// Peak tracks the largest absolute value of one record column.
type Peak struct {
	name    string
	pick    func(dynamo.Record) float64
	peak    float64
	samples int
}

func NewPeak(name string, pick func(dynamo.Record) float64) *Peak {
	return &Peak{
		name: name,
		pick: pick,
	}
}

func NewMaxVelocity() *Peak {
	return NewPeak("max_velocity", func(r dynamo.Record) float64 { return r.Velocity })
}

func NewMaxAcceleration() *Peak {
	return NewPeak("max_acceleration", func(r dynamo.Record) float64 { return r.Acceleration })
}

func NewMaxForce() *Peak {
	return NewPeak("max_force", func(r dynamo.Record) float64 { return r.Force })
}

func (p *Peak) Name() string {
	return p.name
}

func (p *Peak) Observe(r dynamo.Record) {
	p.peak = math.Max(p.peak, math.Abs(p.pick(r)))
	p.samples++
}

func (p *Peak) Value() float64 {
	return p.peak
}

func (p *Peak) Reset() {
	p.peak = 0
	p.samples = 0
}
