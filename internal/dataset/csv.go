package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/catchsim/internal/dynamo"
)

// CSVSink writes a finished run as CSV with a header row. Floats are
// written in shortest round-trip form so Read reproduces them exactly.
type CSVSink struct {
	w    io.Writer
	kind Kind
}

func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: w, kind: Full}
}

func NewLegacySink(w io.Writer) *CSVSink {
	return &CSVSink{w: w, kind: Legacy}
}

func (s *CSVSink) Write(records []dynamo.Record) error {
	return Write(s.w, s.kind, records)
}

func Write(w io.Writer, kind Kind, records []dynamo.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(kind.Columns()); err != nil {
		return err
	}

	row := make([]string, len(kind.Columns()))
	for _, r := range records {
		for i, v := range toValues(kind, r) {
			row[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteLegacy emits the four-column form.
func WriteLegacy(w io.Writer, records []dynamo.Record) error {
	return Write(w, Legacy, records)
}

// Read parses either schema. The header row is optional and detected by a
// non-numeric first field; when present it must name the schema's columns.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty dataset", ErrSchema)
	}

	kind, err := KindOf(len(rows[0]))
	if err != nil {
		return nil, err
	}

	if isHeader(rows[0]) {
		if err := checkHeader(kind, rows[0]); err != nil {
			return nil, err
		}
		rows = rows[1:]
	}

	table := &Table{Kind: kind, Records: make([]dynamo.Record, 0, len(rows))}
	values := make([]float64, len(kind.Columns()))
	for i, row := range rows {
		for j, field := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %q: %w", ErrSchema, i+1, kind.Columns()[j], err)
			}
			values[j] = v
		}
		table.Records = append(table.Records, fromValues(kind, values))
	}

	return table, nil
}

func isHeader(row []string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
	return err != nil
}

func checkHeader(kind Kind, row []string) error {
	for i, name := range kind.Columns() {
		if strings.TrimSpace(row[i]) != name {
			return fmt.Errorf("%w: %s column %d is %q, want %q", ErrSchema, kind, i, row[i], name)
		}
	}
	return nil
}

func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// WriteFile writes records to a temporary file next to path and renames it
// into place, so a failed write never leaves a truncated dataset behind.
func WriteFile(path string, kind Kind, records []dynamo.Record) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, kind, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// FileSink persists a run to a CSV file on Write.
type FileSink struct {
	Path string
	Kind Kind
}

func (s FileSink) Write(records []dynamo.Record) error {
	return WriteFile(s.Path, s.Kind, records)
}
