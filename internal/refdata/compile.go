package refdata

import (
	"fmt"

	"growthstandards/internal/core"
)

// Compile completes percentile-only records by fitting their LMS
// parameters. It runs at dataset build time, never on the query path. A
// row that fails to fit aborts compilation: serving it zero-filled or
// stale would silently corrupt every downstream query hitting that age.
func Compile(records []Record) ([]Record, error) {
	out := make([]Record, len(records))
	copy(out, records)
	for i := range out {
		rec := &out[i]
		if rec.HasLMS() {
			continue
		}
		if len(rec.Percentiles) == 0 {
			return nil, fmt.Errorf("record %s/%s/%s x=%g: neither LMS nor percentile columns",
				rec.Source, rec.Measurement, rec.Sex, rec.X)
		}
		points, err := percentilePoints(rec.Percentiles)
		if err != nil {
			return nil, fmt.Errorf("record %s/%s/%s x=%g: %w", rec.Source, rec.Measurement, rec.Sex, rec.X, err)
		}
		lms, err := core.DeriveLMS(points)
		if err != nil {
			return nil, fmt.Errorf("record %s/%s/%s x=%g: %w", rec.Source, rec.Measurement, rec.Sex, rec.X, err)
		}
		rec.L, rec.M, rec.S = lms.L, lms.M, lms.S
		rec.Derived = true
	}
	return out, nil
}

func percentilePoints(percentiles map[float64]float64) ([]core.PercentilePoint, error) {
	points := make([]core.PercentilePoint, 0, len(percentiles))
	for p, v := range percentiles {
		z, ok := core.PercentileZScores[p]
		if !ok {
			return nil, fmt.Errorf("unsupported percentile column %g", p)
		}
		points = append(points, core.PercentilePoint{Z: z, Value: v})
	}
	return points, nil
}

// Verify runs the dataset quality checks used by the refdata-check tool:
// every growth measure's median curve must be non-decreasing within a
// single table. A local decrease means a transposed or mislabeled source
// row and must be fixed upstream, not served.
func Verify(store *core.Store) []error {
	var problems []error
	for _, table := range store.Tables() {
		if table.Measurement.IsVelocity() || table.Measurement == core.MeasurementBodyMassIndex {
			continue
		}
		rows := table.Rows()
		for i := 1; i < len(rows); i++ {
			if rows[i].M < rows[i-1].M {
				problems = append(problems, fmt.Errorf("table %s/%s/%s: median decreases from %g to %g at x=%g",
					table.Source, table.Measurement, table.Sex, rows[i-1].M, rows[i].M, rows[i].X))
			}
		}
	}
	return problems
}
