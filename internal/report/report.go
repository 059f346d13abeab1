// Package report renders probe results as the CSV table shredder writes to
// disk. Failed probes are dropped and rows are sorted by target, so the same
// results always produce the same bytes.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/khanhnv2901/shredder/internal/checker"
	consts "github.com/khanhnv2901/shredder/internal/shared/constants"
)

const (
	urlColumn = "URL"
	yes       = "Yes"
	no        = "No"
)

// Row pairs a target with its presence vector.
type Row struct {
	Target   string
	Presence []bool
}

// Report is the write-once table built from a run.
type Report struct {
	Headers checker.HeaderSet
	Rows    []Row
}

// Build keeps the successful results, one row each, sorted by target.
func Build(headers checker.HeaderSet, results []checker.ProbeResult) *Report {
	rows := make([]Row, 0, len(results))
	for _, res := range results {
		if !res.OK() {
			continue
		}
		rows = append(rows, Row{
			Target:   res.Target,
			Presence: append([]bool(nil), res.Presence...),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Target < rows[j].Target
	})
	return &Report{Headers: headers, Rows: rows}
}

// Columns returns the header row: URL followed by the header names.
func (r *Report) Columns() []string {
	return append([]string{urlColumn}, r.Headers...)
}

// Records returns the header row followed by one Yes/No row per target.
func (r *Report) Records() [][]string {
	records := make([][]string, 0, len(r.Rows)+1)
	records = append(records, r.Columns())
	for _, row := range r.Rows {
		record := make([]string, 0, len(r.Headers)+1)
		record = append(record, row.Target)
		for i := range r.Headers {
			record = append(record, YesNo(i < len(row.Presence) && row.Presence[i]))
		}
		records = append(records, record)
	}
	return records
}

// WriteCSV writes the report with LF line endings.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(r.Records()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteFile writes the CSV to path, creating parent directories as needed.
func (r *Report) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, consts.DefaultDirPerm); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := r.WriteCSV(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), consts.DefaultFilePerm); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// YesNo renders a presence flag the way the report does.
func YesNo(present bool) string {
	if present {
		return yes
	}
	return no
}
