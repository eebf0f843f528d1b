// Package csvfile loads the compiled reference dataset from a CSV file.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"growthstandards/internal/refdata"
)

// Columns required in the header row, in any order. The percentile columns
// (p3 ... p97) are optional and only read when l/m/s are empty.
var requiredColumns = []string{
	"measurement", "sex", "source", "x_axis", "x",
	"l", "m", "s", "domain_min", "domain_max",
}

var percentileColumns = map[string]float64{
	"p3": 3, "p5": 5, "p10": 10, "p25": 25, "p50": 50,
	"p75": 75, "p90": 90, "p95": 95, "p97": 97,
}

// Loader reads dataset records from one CSV file.
type Loader struct {
	path string
}

// New returns a loader for the CSV dataset at path.
func New(path string) *Loader { return &Loader{path: path} }

// Load parses the full file into dataset records.
func (l *Loader) Load(ctx context.Context) ([]refdata.Record, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(ctx, f)
}

// Parse reads dataset records from CSV content.
func Parse(ctx context.Context, r io.Reader) ([]refdata.Record, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("dataset header missing column %q", name)
		}
	}

	var records []refdata.Record
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		rec := refdata.Record{
			Measurement: row[cols["measurement"]],
			Sex:         row[cols["sex"]],
			Source:      row[cols["source"]],
			XAxis:       row[cols["x_axis"]],
		}
		if rec.X, err = parseFloat(row, cols, "x"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if rec.DomainMin, err = parseFloat(row, cols, "domain_min"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if rec.DomainMax, err = parseFloat(row, cols, "domain_max"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if idx, ok := cols["interval_days"]; ok && row[idx] != "" {
			iv, err := strconv.Atoi(row[idx])
			if err != nil {
				return nil, fmt.Errorf("line %d: interval_days: %w", line, err)
			}
			rec.IntervalDays = iv
		}
		if idx, ok := cols["is_derived"]; ok && row[idx] != "" {
			rec.Derived = row[idx] == "true" || row[idx] == "1"
		}

		if row[cols["m"]] != "" {
			if rec.L, err = parseFloat(row, cols, "l"); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if rec.M, err = parseFloat(row, cols, "m"); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if rec.S, err = parseFloat(row, cols, "s"); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		} else {
			for name, percentile := range percentileColumns {
				idx, ok := cols[name]
				if !ok || row[idx] == "" {
					continue
				}
				v, err := strconv.ParseFloat(row[idx], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %s: %w", line, name, err)
				}
				if rec.Percentiles == nil {
					rec.Percentiles = make(map[float64]float64, len(percentileColumns))
				}
				rec.Percentiles[percentile] = v
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseFloat(row []string, cols map[string]int, name string) (float64, error) {
	v, err := strconv.ParseFloat(row[cols[name]], 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}
