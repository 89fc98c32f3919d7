package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/san-kum/catchsim/internal/catch"
	"github.com/san-kum/catchsim/internal/dataset"
	"github.com/san-kum/catchsim/internal/dynamo"
	"github.com/san-kum/catchsim/internal/metrics"
	"github.com/san-kum/catchsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	datasetFile  = "dataset.csv"
)

var (
	ErrNotFound = errors.New("storage: run not found")
	ErrBadKey   = errors.New("storage: invalid run key")
)

// Store keeps one directory per run, named by the scenario key, holding
// metadata.json and dataset.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID          string             `json:"id"`
	Key         string             `json:"key"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Fingerprint string             `json:"fingerprint"`
	Schema      string             `json:"schema"`
	Records     int                `json:"records"`
	Scenario    dynamo.Scenario    `json:"scenario"`
	Outcome     catch.Outcome      `json:"outcome"`
	LandingY    float64            `json:"landing_y"`
	LandingTime float64            `json:"landing_time"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Fingerprint hashes every scenario field. Equal scenarios always produce
// equal runs, so the fingerprint identifies a run's content.
func Fingerprint(sc dynamo.Scenario) string {
	d := xxhash.New()
	var buf [8]byte
	for _, v := range []float64{
		sc.AngleDeg, sc.BallX, sc.BallY0, sc.TrainX0, sc.Duration, sc.Dt,
		sc.Kp, sc.Ki, sc.Kd, sc.Mass, sc.Gravity, sc.Friction,
	} {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		d.Write(buf[:])
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

func (s *Store) runDir(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	return filepath.Join(s.baseDir, key), nil
}

// Sink returns a dataset sink writing the full schema into the run
// directory of key.
func (s *Store) Sink(key string) dynamo.Sink {
	return dynamo.SinkFunc(func(records []dynamo.Record) error {
		dir, err := s.runDir(key)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		return dataset.WriteFile(filepath.Join(dir, datasetFile), dataset.Full, records)
	})
}

// SaveMetadata writes metadata.json for a run whose dataset went through
// Sink. metrics may be nil, in which case the result's own metrics are
// stored.
func (s *Store) SaveMetadata(key string, seed int64, res *sim.Result, metrics map[string]float64) (*RunMetadata, error) {
	dir, err := s.runDir(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = res.Metrics
	}

	meta := &RunMetadata{
		ID:          uuid.NewString(),
		Key:         key,
		Timestamp:   time.Now().UTC(),
		Seed:        seed,
		Fingerprint: Fingerprint(res.Scenario),
		Schema:      dataset.Full.String(),
		Records:     len(res.Records),
		Scenario:    res.Scenario,
		Outcome:     res.Outcome,
		LandingY:    res.LandingY,
		LandingTime: res.LandingTime,
		Metrics:     metrics,
	}
	if err := writeMetadata(dir, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// Save writes both the dataset and the metadata of a finished run.
func (s *Store) Save(key string, seed int64, res *sim.Result, metrics map[string]float64) (*RunMetadata, error) {
	if err := s.Sink(key).Write(res.Records); err != nil {
		return nil, fmt.Errorf("%w: %w", dynamo.ErrSinkFailure, err)
	}
	return s.SaveMetadata(key, seed, res, metrics)
}

func writeMetadata(dir string, meta *RunMetadata) error {
	metaFile, err := os.Create(filepath.Join(dir, metadataFile))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		metaFile.Close()
		return err
	}
	return metaFile.Close()
}

// Import copies an existing CSV dataset of either schema into the store.
// The key is taken from the file name and the scenario is base with the
// key applied. The file is stored in its own schema; record metrics are
// computed after legacy tables are derived.
func (s *Store) Import(path string, base dynamo.Scenario) (*RunMetadata, error) {
	key, err := dataset.ParseKey(path)
	if err != nil {
		return nil, err
	}
	table, err := dataset.ReadFile(path)
	if err != nil {
		return nil, err
	}

	name := key.String()
	dir, err := s.runDir(name)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	if err := dataset.WriteFile(filepath.Join(dir, datasetFile), table.Kind, table.Records); err != nil {
		return nil, err
	}

	sc := key.Apply(base)
	table.Derive()
	collected := make(map[string]float64)
	for _, m := range metrics.Default(sc) {
		m.Reset()
		for _, r := range table.Records {
			m.Observe(r)
		}
		collected[m.Name()] = m.Value()
	}

	meta := &RunMetadata{
		ID:          uuid.NewString(),
		Key:         name,
		Timestamp:   time.Now().UTC(),
		Fingerprint: Fingerprint(sc),
		Schema:      table.Kind.String(),
		Records:     table.Len(),
		Scenario:    sc,
		Outcome:     catch.Outcome{Status: catch.Pending, Step: -1},
		Metrics:     collected,
	}
	if err := writeMetadata(dir, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// List returns the metadata of every run, sorted by key. Directories
// without readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Key < runs[j].Key })
	return runs, nil
}

func (s *Store) Load(key string) (*RunMetadata, error) {
	dir, err := s.runDir(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadDataset reads the dataset of key. Legacy tables come back with
// derived velocity and acceleration.
func (s *Store) LoadDataset(key string) (*dataset.Table, error) {
	dir, err := s.runDir(key)
	if err != nil {
		return nil, err
	}
	table, err := dataset.ReadFile(filepath.Join(dir, datasetFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, err
	}
	table.Derive()
	return table, nil
}

// Find returns a stored run with the given fingerprint.
func (s *Store) Find(fingerprint string) (*RunMetadata, bool, error) {
	runs, err := s.List()
	if err != nil {
		return nil, false, err
	}
	for i := range runs {
		if runs[i].Fingerprint == fingerprint {
			return &runs[i], true, nil
		}
	}
	return nil, false, nil
}
