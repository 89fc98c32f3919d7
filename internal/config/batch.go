package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/catchsim/internal/dynamo"
)

// Batch is a named list of runs loaded from YAML:
//
//	name: slopes
//	preset: baseline
//	runs:
//	  - name: gentle
//	    params: {angle: 10}
//	  - preset: steep
type Batch struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Preset      string     `yaml:"preset"`
	Runs        []BatchRun `yaml:"runs"`
}

type BatchRun struct {
	Name   string             `yaml:"name"`
	Preset string             `yaml:"preset"`
	Params map[string]float64 `yaml:"params"`
}

// NamedScenario pairs a scenario with the name it is stored under. An
// empty name lets the caller derive a key from the scenario.
type NamedScenario struct {
	Name     string
	Scenario dynamo.Scenario
}

func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, err
	}
	if len(batch.Runs) == 0 {
		return nil, fmt.Errorf("batch %q has no runs", batch.Name)
	}
	return &batch, nil
}

// Scenarios resolves every run against base: the batch preset replaces
// base, a run preset replaces that, and params are applied last.
func (b *Batch) Scenarios(base *Config) ([]NamedScenario, error) {
	if base == nil {
		base = DefaultConfig()
	}
	if b.Preset != "" {
		base = GetPreset(b.Preset)
		if base == nil {
			return nil, fmt.Errorf("batch %q: unknown preset %q", b.Name, b.Preset)
		}
	}

	out := make([]NamedScenario, 0, len(b.Runs))
	for i, run := range b.Runs {
		cfg := base
		if run.Preset != "" {
			cfg = GetPreset(run.Preset)
			if cfg == nil {
				return nil, fmt.Errorf("run %d: unknown preset %q", i+1, run.Preset)
			}
		}

		sc := cfg.ToScenario()
		for k, v := range run.Params {
			if err := sc.SetParam(k, v); err != nil {
				return nil, fmt.Errorf("run %d: %w", i+1, err)
			}
		}
		out = append(out, NamedScenario{Name: run.Name, Scenario: sc})
	}
	return out, nil
}
