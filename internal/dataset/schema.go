// Package dataset reads and writes the per-step time series of a run.
//
// Two schemas exist. The full schema has eight columns; the legacy schema
// written by older runs has four. A reader resolves the schema once from the
// column count and returns a [Table] tagged with its [Kind], so consumers
// never branch on raw rows.
package dataset

import (
	"errors"
	"fmt"

	"github.com/san-kum/catchsim/internal/dynamo"
)

var (
	ErrSchema = errors.New("dataset: unsupported schema")
	ErrKey    = errors.New("dataset: malformed scenario key")
)

type Kind int

const (
	Full Kind = iota
	Legacy
)

var FullColumns = []string{
	"time",
	"train_position",
	"falling_object_position",
	"applied_force",
	"train_velocity",
	"train_acceleration",
	"error_derivative",
	"error_integral",
}

var LegacyColumns = []string{"time", "train_x", "ball_y", "force"}

func (k Kind) String() string {
	switch k {
	case Full:
		return "full"
	case Legacy:
		return "legacy"
	default:
		return "unknown"
	}
}

func (k Kind) Columns() []string {
	if k == Legacy {
		return LegacyColumns
	}
	return FullColumns
}

// KindOf resolves the schema from a column count.
func KindOf(columns int) (Kind, error) {
	switch columns {
	case len(FullColumns):
		return Full, nil
	case len(LegacyColumns):
		return Legacy, nil
	default:
		return 0, fmt.Errorf("%w: %d columns", ErrSchema, columns)
	}
}

// Table is a dataset resolved to one schema. Legacy tables only populate
// Time, TrainPosition, BallHeight and Force until Derive is called.
type Table struct {
	Kind    Kind
	Records []dynamo.Record
}

func (t *Table) Len() int { return len(t.Records) }

// Column returns one column by name. Full and legacy names are both
// accepted for the four shared columns.
func (t *Table) Column(name string) ([]float64, error) {
	pick, ok := columnPickers[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown column %q", ErrSchema, name)
	}
	out := make([]float64, len(t.Records))
	for i, r := range t.Records {
		out[i] = pick(r)
	}
	return out, nil
}

func (t *Table) Times() []float64 {
	out, _ := t.Column("time")
	return out
}

var columnPickers = map[string]func(dynamo.Record) float64{
	"time":                    func(r dynamo.Record) float64 { return r.Time },
	"train_position":          func(r dynamo.Record) float64 { return r.TrainPosition },
	"train_x":                 func(r dynamo.Record) float64 { return r.TrainPosition },
	"falling_object_position": func(r dynamo.Record) float64 { return r.BallHeight },
	"ball_y":                  func(r dynamo.Record) float64 { return r.BallHeight },
	"applied_force":           func(r dynamo.Record) float64 { return r.Force },
	"force":                   func(r dynamo.Record) float64 { return r.Force },
	"train_velocity":          func(r dynamo.Record) float64 { return r.Velocity },
	"train_acceleration":      func(r dynamo.Record) float64 { return r.Acceleration },
	"error_derivative":        func(r dynamo.Record) float64 { return r.ErrDerivative },
	"error_integral":          func(r dynamo.Record) float64 { return r.ErrIntegral },
}

func fromValues(kind Kind, v []float64) dynamo.Record {
	r := dynamo.Record{
		Time:          v[0],
		TrainPosition: v[1],
		BallHeight:    v[2],
		Force:         v[3],
	}
	if kind == Full {
		r.Velocity = v[4]
		r.Acceleration = v[5]
		r.ErrDerivative = v[6]
		r.ErrIntegral = v[7]
	}
	return r
}

func toValues(kind Kind, r dynamo.Record) []float64 {
	if kind == Legacy {
		return []float64{r.Time, r.TrainPosition, r.BallHeight, r.Force}
	}
	return r.Values()
}
