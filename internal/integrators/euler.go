package integrators

// SemiImplicitEuler advances velocity first and moves the position with the
// new velocity. Positions below Floor are clamped to it and the velocity is
// zeroed: the track end is absorbing, the train does not bounce.
type SemiImplicitEuler struct {
	Floor float64
}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Step(s, v, a, dt float64) (float64, float64) {
	v += a * dt
	s += v * dt
	if s < e.Floor {
		return e.Floor, 0
	}
	return s, v
}
