package dataset

// Derive fills the velocity and acceleration of a legacy table from the
// positions by finite differences: central in the interior, one-sided at
// the ends. Full tables are left untouched.
func (t *Table) Derive() {
	if t.Kind != Legacy || len(t.Records) < 2 {
		return
	}

	times := t.Times()
	pos, _ := t.Column("train_position")
	vel := gradient(pos, times)
	acc := gradient(vel, times)

	for i := range t.Records {
		t.Records[i].Velocity = vel[i]
		t.Records[i].Acceleration = acc[i]
	}
}

func gradient(y, x []float64) []float64 {
	n := len(y)
	out := make([]float64, n)
	out[0] = (y[1] - y[0]) / (x[1] - x[0])
	out[n-1] = (y[n-1] - y[n-2]) / (x[n-1] - x[n-2])
	for i := 1; i < n-1; i++ {
		out[i] = (y[i+1] - y[i-1]) / (x[i+1] - x[i-1])
	}
	return out
}
