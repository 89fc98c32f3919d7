package experiment

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/san-kum/catchsim/internal/dataset"
	"github.com/san-kum/catchsim/internal/dynamo"
)

// Sampling ranges of RandomScenarios.
const (
	MaxRandomAngle = 45.0
	MinRandomBallX = 20.0
	MaxRandomBallX = 100.0
	MinRandomBallY = 30.0
	MaxRandomBallY = 100.0
	MinTrainGap    = 20.0
)

// RandomScenarios draws n scenarios from a seeded source: angle in [0,45),
// ball_x in [20,100), ball_y0 in [30,100) and train_x0 in
// [0, max(0, ball_x-20)). Everything else comes from base.
func RandomScenarios(seed int64, n int, base dynamo.Scenario) []Job {
	rng := rand.New(rand.NewSource(seed))
	jobs := make([]Job, 0, n)

	for i := 1; i <= n; i++ {
		sc := base
		sc.AngleDeg = rng.Float64() * MaxRandomAngle
		sc.BallX = MinRandomBallX + rng.Float64()*(MaxRandomBallX-MinRandomBallX)
		sc.BallY0 = MinRandomBallY + rng.Float64()*(MaxRandomBallY-MinRandomBallY)
		sc.TrainX0 = rng.Float64() * math.Max(0, sc.BallX-MinTrainGap)

		jobs = append(jobs, Job{
			Key:      dataset.KeyFor("Random", i, sc, true).String(),
			Seed:     seed,
			Scenario: sc,
		})
	}
	return jobs
}

// GridScenarios is the cartesian product of the given values. Combinations
// where the train does not start short of the ball are skipped. Keys carry
// whole-number coordinates; scenarios that round to an already used key
// are numbered from S02 on.
func GridScenarios(angles, ballXs, trainXs []float64, base dynamo.Scenario) []Job {
	jobs := make([]Job, 0, len(angles)*len(ballXs)*len(trainXs))
	used := make(map[string]int)
	for _, a := range angles {
		for _, bx := range ballXs {
			for _, tx := range trainXs {
				if tx >= bx {
					continue
				}
				sc := base
				sc.AngleDeg, sc.BallX, sc.TrainX0 = a, bx, tx

				key := dataset.KeyFor("PID", 0, sc, false)
				name := key.String()
				used[name]++
				if n := used[name]; n > 1 {
					key.Seq = n
				}
				jobs = append(jobs, Job{
					Key:      key.String(),
					Scenario: sc,
				})
			}
		}
	}
	return jobs
}

// Range returns from, from+step, ... up to and including to.
func Range(from, to, step float64) []float64 {
	if step <= 0 || to < from {
		return nil
	}
	n := int(math.Floor((to-from)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}

// Generator builds the jobs of a named suite.
type Generator func(seed int64, n int, base dynamo.Scenario) []Job

type Registry struct {
	suites map[string]Generator
}

func NewRegistry() *Registry {
	r := &Registry{
		suites: make(map[string]Generator),
	}

	r.suites["random"] = RandomScenarios
	r.suites["angles"] = func(_ int64, _ int, base dynamo.Scenario) []Job {
		return GridScenarios(Range(0, 45, 5), []float64{base.BallX}, []float64{base.TrainX0}, base)
	}
	r.suites["grid"] = func(_ int64, _ int, base dynamo.Scenario) []Job {
		return GridScenarios(Range(0, 45, 5), Range(20, 100, 10), Range(0, 80, 10), base)
	}

	return r
}

func (r *Registry) Get(name string) (Generator, error) {
	g, ok := r.suites[name]
	if !ok {
		return nil, fmt.Errorf("unknown suite: %s", name)
	}
	return g, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.suites))
	for name := range r.suites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
