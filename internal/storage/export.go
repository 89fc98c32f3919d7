package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/catchsim/internal/catch"
	"github.com/san-kum/catchsim/internal/dataset"
	"github.com/san-kum/catchsim/internal/dynamo"
)

type ExportData struct {
	Key      string             `json:"key"`
	Schema   string             `json:"schema"`
	Scenario dynamo.Scenario    `json:"scenario"`
	Outcome  catch.Outcome      `json:"outcome"`
	Steps    int                `json:"steps"`
	Columns  []string           `json:"columns"`
	Records  []dynamo.Record    `json:"records"`
	Metrics  map[string]float64 `json:"metrics"`
}

func NewExportData(meta *RunMetadata, table *dataset.Table) ExportData {
	return ExportData{
		Key:      meta.Key,
		Schema:   table.Kind.String(),
		Scenario: meta.Scenario,
		Outcome:  meta.Outcome,
		Steps:    table.Len(),
		Columns:  table.Kind.Columns(),
		Records:  table.Records,
		Metrics:  meta.Metrics,
	}
}

func ExportJSON(w io.Writer, meta *RunMetadata, table *dataset.Table) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, table))
}

func ExportJSONFile(path string, meta *RunMetadata, table *dataset.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ExportJSON(file, meta, table); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Export writes a stored run as JSON.
func (s *Store) Export(w io.Writer, key string) error {
	meta, err := s.Load(key)
	if err != nil {
		return err
	}
	table, err := s.LoadDataset(key)
	if err != nil {
		return err
	}
	return ExportJSON(w, meta, table)
}

// ExportFile writes a stored run as JSON to path. Nothing is created when
// the run cannot be loaded.
func (s *Store) ExportFile(path, key string) error {
	meta, err := s.Load(key)
	if err != nil {
		return err
	}
	table, err := s.LoadDataset(key)
	if err != nil {
		return err
	}
	return ExportJSONFile(path, meta, table)
}
