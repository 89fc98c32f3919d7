package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/catchsim/internal/dynamo"
)

// DistanceBins are the initial-distance bin edges used by ByDistance.
var DistanceBins = []float64{0, 20, 40, 60, 80, 100}

// Run is one entry of a batch: the scenario and its collected metrics.
type Run struct {
	Scenario dynamo.Scenario
	Metrics  map[string]float64
}

type Group struct {
	Label   string
	Summary Summary
}

// ByAngle groups runs by whole-degree track angle, ascending.
func ByAngle(runs []Run) []Group {
	buckets := make(map[int][]map[string]float64)
	for _, r := range runs {
		a := int(math.Round(r.Scenario.AngleDeg))
		buckets[a] = append(buckets[a], r.Metrics)
	}

	angles := make([]int, 0, len(buckets))
	for a := range buckets {
		angles = append(angles, a)
	}
	sort.Ints(angles)

	groups := make([]Group, 0, len(angles))
	for _, a := range angles {
		groups = append(groups, Group{Label: fmt.Sprintf("%d°", a), Summary: Summarize(buckets[a])})
	}
	return groups
}

// ByDistance groups runs by initial train-to-ball distance into the
// half-open bins [edges[i], edges[i+1]). Empty bins are omitted.
func ByDistance(runs []Run, edges []float64) []Group {
	groups := make([]Group, 0, len(edges))
	for i := 0; i+1 < len(edges); i++ {
		lo, hi := edges[i], edges[i+1]
		var bin []map[string]float64
		for _, r := range runs {
			d := r.Scenario.InitialError()
			if d >= lo && d < hi {
				bin = append(bin, r.Metrics)
			}
		}
		if len(bin) == 0 {
			continue
		}
		groups = append(groups, Group{Label: fmt.Sprintf("%g-%gm", lo, hi), Summary: Summarize(bin)})
	}
	return groups
}
