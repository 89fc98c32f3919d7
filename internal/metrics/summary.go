package metrics

import "sort"

// Summary aggregates the metric maps of a batch of runs.
type Summary struct {
	Runs              int     `json:"runs"`
	Caught            int     `json:"caught"`
	SuccessRate       float64 `json:"success_rate"`
	MeanCatchTime     float64 `json:"mean_catch_time"`
	MeanCatchDistance float64 `json:"mean_catch_distance"`
	MeanFinalError    float64 `json:"mean_final_error"`
	MeanForce         float64 `json:"mean_force"`
}

// Summarize folds per-run metric maps as produced by Collect. Catch
// averages only include caught runs.
func Summarize(runs []map[string]float64) Summary {
	s := Summary{Runs: len(runs)}
	if len(runs) == 0 {
		return s
	}

	var catchTime, catchDist, finalErr, force float64
	for _, m := range runs {
		finalErr += m["final_error"]
		force += m["mean_force"]
		if m[Caught] != 1 {
			continue
		}
		s.Caught++
		catchTime += m[CatchTime]
		catchDist += m[CatchDistance]
	}

	n := float64(len(runs))
	s.SuccessRate = float64(s.Caught) / n
	s.MeanFinalError = finalErr / n
	s.MeanForce = force / n
	if s.Caught > 0 {
		s.MeanCatchTime = catchTime / float64(s.Caught)
		s.MeanCatchDistance = catchDist / float64(s.Caught)
	}
	return s
}

// Names returns the sorted metric names present in any run.
func Names(runs []map[string]float64) []string {
	seen := make(map[string]bool)
	for _, m := range runs {
		for k := range m {
			seen[k] = true
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
