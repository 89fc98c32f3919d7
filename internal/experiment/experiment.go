// Package experiment runs batches of scenarios concurrently and persists
// each run to a store.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/catchsim/internal/catch"
	"github.com/san-kum/catchsim/internal/dynamo"
	"github.com/san-kum/catchsim/internal/logging"
	"github.com/san-kum/catchsim/internal/metrics"
	"github.com/san-kum/catchsim/internal/sim"
	"github.com/san-kum/catchsim/internal/storage"
)

// ErrDuplicateKey rejects a batch in which two jobs would share a run
// directory.
var ErrDuplicateKey = errors.New("experiment: duplicate job key")

// Job is one scenario to run, stored under Key.
type Job struct {
	Key      string
	Seed     int64
	Scenario dynamo.Scenario
}

// Report is the result of one job. Err is set for scenarios that were
// rejected before running; such jobs do not stop the batch.
type Report struct {
	Job     Job
	Status  catch.Status
	Metrics map[string]float64
	Skipped bool
	Err     error
}

type Config struct {
	// Workers bounds concurrent runs; zero means GOMAXPROCS.
	Workers int
	// SkipExisting skips jobs whose scenario fingerprint is already stored.
	SkipExisting bool
}

type Runner struct {
	cfg   Config
	store *storage.Store
	log   *zap.Logger
}

// NewRunner returns a runner saving to st. A nil store runs without
// persistence.
func NewRunner(st *storage.Store, cfg Config, log *zap.Logger) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{cfg: cfg, store: st, log: logging.OrNop(log)}
}

// Run executes jobs with at most Workers in flight and returns one report
// per job, in job order. Cancelling ctx stops scheduling new jobs; runs
// already started complete. Storage failures abort the batch.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Report, error) {
	keys := make(map[string]bool, len(jobs))
	for _, job := range jobs {
		if keys[job.Key] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, job.Key)
		}
		keys[job.Key] = true
	}

	reports := make([]Report, len(jobs))
	for i, job := range jobs {
		reports[i].Job = job
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)

	r.log.Info("batch started", zap.Int("jobs", len(jobs)), zap.Int("workers", r.cfg.Workers))

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}

		if r.store != nil && r.cfg.SkipExisting {
			meta, ok, err := r.store.Find(storage.Fingerprint(job.Scenario))
			if err != nil {
				return nil, err
			}
			if ok {
				reports[i].Skipped = true
				r.log.Debug("run skipped", zap.String("key", job.Key), zap.String("existing", meta.Key))
				continue
			}
		}

		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rep, err := r.runJob(job)
			reports[i] = rep
			return err
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	caught := 0
	for _, rep := range reports {
		if rep.Status == catch.Caught {
			caught++
		}
	}
	r.log.Info("batch finished", zap.Int("jobs", len(jobs)), zap.Int("caught", caught), zap.Error(err))

	return reports, err
}

func (r *Runner) runJob(job Job) (Report, error) {
	rep := Report{Job: job}
	log := r.log.With(zap.String("key", job.Key))

	s := sim.New(job.Scenario)
	s.SetLogger(log)
	for _, m := range metrics.Default(job.Scenario) {
		s.AddMetric(m)
	}

	var sink dynamo.Sink
	if r.store != nil {
		sink = r.store.Sink(job.Key)
	}

	res, err := s.Run(sink)
	if err != nil {
		if errors.Is(err, dynamo.ErrInvalidConfig) || errors.Is(err, dynamo.ErrNumericDegenerate) {
			log.Warn("scenario rejected", zap.Error(err))
			rep.Err = err
			return rep, nil
		}
		return rep, fmt.Errorf("%s: %w", job.Key, err)
	}

	rep.Status = res.Outcome.Status
	rep.Metrics = metrics.Collect(res)

	if r.store != nil {
		if _, err := r.store.SaveMetadata(job.Key, job.Seed, res, rep.Metrics); err != nil {
			return rep, fmt.Errorf("%s: %w", job.Key, err)
		}
	}
	return rep, nil
}

// Runs converts reports of completed jobs for grouping.
func Runs(reports []Report) []metrics.Run {
	out := make([]metrics.Run, 0, len(reports))
	for _, rep := range reports {
		if rep.Metrics == nil {
			continue
		}
		out = append(out, metrics.Run{Scenario: rep.Job.Scenario, Metrics: rep.Metrics})
	}
	return out
}

// Summarize folds the metrics of completed jobs.
func Summarize(reports []Report) metrics.Summary {
	runs := Runs(reports)
	maps := make([]map[string]float64, len(runs))
	for i, run := range runs {
		maps[i] = run.Metrics
	}
	return metrics.Summarize(maps)
}
