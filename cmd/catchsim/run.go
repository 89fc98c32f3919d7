package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/catchsim/internal/config"
	"github.com/san-kum/catchsim/internal/dataset"
	"github.com/san-kum/catchsim/internal/dynamo"
	"github.com/san-kum/catchsim/internal/experiment"
	"github.com/san-kum/catchsim/internal/metrics"
	"github.com/san-kum/catchsim/internal/optim"
	"github.com/san-kum/catchsim/internal/sim"
	"github.com/san-kum/catchsim/internal/storage"
	"github.com/san-kum/catchsim/internal/viz"
)

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, seed, err := resolveScenario(cmd)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	key := runKey
	if key == "" {
		key = dataset.FormatKey(dataset.KeyFor("PID", 0, sc, false))
	}

	s := sim.New(sc)
	s.SetLogger(log)
	for _, m := range metrics.Default(sc) {
		s.AddMetric(m)
	}
	if log.Core().Enabled(zap.DebugLevel) {
		s.AddObserver(traceObserver{log: log.With(zap.String("key", key)), every: int(math.Round(1 / sc.Dt))})
	}

	fmt.Printf("running %s...\n", key)
	start := time.Now()

	res, err := s.Run(st.Sink(key))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	collected := metrics.Collect(res)
	if _, err := st.SaveMetadata(key, seed, res, collected); err != nil {
		return err
	}

	fmt.Printf("completed in %v (%d steps)\n", elapsed, len(res.Records))
	fmt.Println(viz.RenderSummary(key, res.Outcome, collected))
	return nil
}

// traceObserver logs every n-th record at debug level.
type traceObserver struct {
	log   *zap.Logger
	every int
}

func (o traceObserver) OnRecord(step int, r dynamo.Record) {
	if o.every > 1 && step%o.every != 0 {
		return
	}
	o.log.Debug("record",
		zap.Int("step", step),
		zap.Float64("t", r.Time),
		zap.Float64("train_position", r.TrainPosition),
		zap.Float64("ball_height", r.BallHeight),
		zap.Float64("force", r.Force),
	)
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := config.LoadBatch(args[0])
	if err != nil {
		return err
	}
	base, seed, err := resolveScenario(cmd)
	if err != nil {
		return err
	}
	named, err := batch.Scenarios(config.FromScenario(base))
	if err != nil {
		return err
	}

	jobs := make([]experiment.Job, len(named))
	for i, n := range named {
		key := n.Name
		if key == "" {
			key = dataset.KeyFor("PID", 0, n.Scenario, false).String()
		}
		jobs[i] = experiment.Job{Key: key, Seed: seed, Scenario: n.Scenario}
	}

	if batch.Description != "" {
		fmt.Println(batch.Description)
	}
	return runJobs(jobs)
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, seed, err := resolveScenario(cmd)
	if err != nil {
		return err
	}
	gen, err := experiment.NewRegistry().Get(args[0])
	if err != nil {
		return err
	}
	return runJobs(gen(seed, count, base))
}

func runJobs(jobs []experiment.Job) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := experiment.NewRunner(st, experiment.Config{Workers: workers, SkipExisting: skipExist}, log)

	fmt.Printf("running %d scenarios...\n", len(jobs))
	start := time.Now()
	reports, err := runner.Run(ctx, jobs)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tSTATUS\tCATCH T\tFINAL ERR\tMEAN FORCE")
	for _, rep := range reports {
		switch {
		case rep.Err != nil:
			fmt.Fprintf(w, "%s\trejected\t-\t-\t%v\n", rep.Job.Key, rep.Err)
		case rep.Skipped:
			fmt.Fprintf(w, "%s\tskipped\t-\t-\t-\n", rep.Job.Key)
		default:
			catchTime := "-"
			if t, ok := rep.Metrics[metrics.CatchTime]; ok {
				catchTime = fmt.Sprintf("%.2fs", t)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%.3f\n",
				rep.Job.Key, rep.Status, catchTime, rep.Metrics["final_error"], rep.Metrics["mean_force"])
		}
	}
	w.Flush()

	runs := experiment.Runs(reports)
	printSummary("all", experiment.Summarize(reports))
	fmt.Println("\nby angle:")
	for _, g := range metrics.ByAngle(runs) {
		printSummary(g.Label, g.Summary)
	}
	fmt.Println("\nby initial distance:")
	for _, g := range metrics.ByDistance(runs, metrics.DistanceBins) {
		printSummary(g.Label, g.Summary)
	}
	return nil
}

func printSummary(label string, s metrics.Summary) {
	fmt.Printf("  %-10s runs=%-4d caught=%-4d success=%5.1f%%  mean catch t=%.2fs  mean final err=%.3f\n",
		label, s.Runs, s.Caught, s.SuccessRate*100, s.MeanCatchTime, s.MeanFinalError)
}

// parseGrid reads "name=from:to:step" or "name=v1,v2,...".
func parseGrid(arg string) (string, []float64, error) {
	name, values, ok := strings.Cut(arg, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("invalid grid %q: want param=values", arg)
	}

	if parts := strings.Split(values, ":"); len(parts) == 3 {
		var bounds [3]float64
		for i, p := range parts {
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return "", nil, fmt.Errorf("invalid grid %q: %w", arg, err)
			}
			bounds[i] = v
		}
		r := experiment.Range(bounds[0], bounds[1], bounds[2])
		if len(r) == 0 {
			return "", nil, fmt.Errorf("invalid grid %q: empty range", arg)
		}
		return name, r, nil
	}

	var out []float64
	for _, p := range strings.Split(values, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return "", nil, fmt.Errorf("invalid grid %q: %w", arg, err)
		}
		out = append(out, v)
	}
	return name, out, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	base, _, err := resolveScenario(cmd)
	if err != nil {
		return err
	}

	var cost optim.Cost
	switch costName {
	case "catch":
		cost = optim.CatchCost
	case "tracking":
		cost = optim.TrackingCost
	default:
		return fmt.Errorf("unknown cost: %s (available: catch, tracking)", costName)
	}

	var names []string
	var ranges [][]float64
	for _, g := range grid {
		name, values, err := parseGrid(g)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	search := optim.NewGridSearch(names, ranges)
	start := time.Now()
	best, bestCost, err := search.Search(ctx, base, cost)
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no valid scenario in grid")
	}

	fmt.Printf("evaluated %d scenarios in %v\n", search.Evaluated(), time.Since(start))
	fmt.Printf("best cost: %.4f\n", bestCost)
	for _, name := range names {
		fmt.Printf("  %s: %g\n", name, best[name])
	}

	if !saveBest {
		return nil
	}
	sc := base
	for name, v := range best {
		if err := sc.SetParam(name, v); err != nil {
			return err
		}
	}
	return runJobs([]experiment.Job{{Key: dataset.KeyFor("PID", 0, sc, false).String() + "_tuned", Scenario: sc}})
}
