// Package optim tunes scenario parameters by exhaustive grid search.
package optim

import (
	"context"
	"math"

	"github.com/san-kum/catchsim/internal/dynamo"
	"github.com/san-kum/catchsim/internal/metrics"
	"github.com/san-kum/catchsim/internal/sim"
)

// Cost scores a finished run; lower is better.
type Cost func(res *sim.Result, m map[string]float64) float64

// MissPenalty is added to the cost of any run that does not end caught.
const MissPenalty = 1000.0

// CatchCost prefers runs that catch the ball, then earlier catches, then
// less control effort.
func CatchCost(res *sim.Result, m map[string]float64) float64 {
	if !res.Caught() {
		return MissPenalty + m["final_error"]
	}
	return res.Outcome.Time + 1e-4*m["mean_force"]
}

// TrackingCost ignores the catch and scores the final tracking error.
func TrackingCost(_ *sim.Result, m map[string]float64) float64 {
	return m["final_error"]
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	evaluated  int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Evaluated is the number of runs the last Search completed.
func (g *GridSearch) Evaluated() int { return g.evaluated }

// Search runs base with every combination of the parameter values and
// returns the combination with the lowest cost. Combinations that fail
// validation are skipped. It stops early when ctx is cancelled.
func (g *GridSearch) Search(ctx context.Context, base dynamo.Scenario, cost Cost) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64
	g.evaluated = 0

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, cost, &best, &bestParams)
	return bestParams, best, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base dynamo.Scenario,
	cost Cost,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		sc := base
		for k, v := range current {
			if err := sc.SetParam(k, v); err != nil {
				return err
			}
		}

		s := sim.New(sc)
		for _, m := range metrics.Default(sc) {
			s.AddMetric(m)
		}
		result, err := s.Run(nil)
		if err != nil {
			return nil
		}
		g.evaluated++

		val := cost(result, metrics.Collect(result))
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, cost, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}
