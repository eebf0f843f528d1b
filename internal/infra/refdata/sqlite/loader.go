// Package sqlite loads the compiled reference dataset from a SQLite
// package file, the distribution format for offline installs.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"growthstandards/internal/refdata"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Loader reads dataset records from the `reference` table of a SQLite file.
type Loader struct {
	db *sql.DB
}

// Open opens the SQLite dataset at path and verifies the schema exists.
func Open(path string) (*Loader, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite dataset path required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='reference'`).Scan(&name)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("dataset at %s has no reference table: %w", path, err)
	}
	return &Loader{db: db}, nil
}

// Close releases the underlying database handle.
func (l *Loader) Close() error { return l.db.Close() }

// DB exposes the handle for packaging and test hooks.
func (l *Loader) DB() *sql.DB { return l.db }

// Load reads every dataset record. L/M/S are NULL for percentile-only rows;
// those rows' percentile columns live in the `reference_percentile` table.
func (l *Loader) Load(ctx context.Context) ([]refdata.Record, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT measurement, sex, source, x_axis, x, l, m, s,
		       domain_min, domain_max, interval_days, is_derived
		FROM reference
		ORDER BY source, measurement, sex, interval_days, x`)
	if err != nil {
		return nil, fmt.Errorf("select reference: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []refdata.Record
	for rows.Next() {
		var rec refdata.Record
		var lVal, mVal, sVal sql.NullFloat64
		var derived int
		if err := rows.Scan(&rec.Measurement, &rec.Sex, &rec.Source, &rec.XAxis, &rec.X,
			&lVal, &mVal, &sVal, &rec.DomainMin, &rec.DomainMax, &rec.IntervalDays, &derived); err != nil {
			return nil, fmt.Errorf("scan reference row: %w", err)
		}
		if mVal.Valid {
			rec.L, rec.M, rec.S = lVal.Float64, mVal.Float64, sVal.Float64
		}
		rec.Derived = derived != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reference rows: %w", err)
	}

	if err := l.attachPercentiles(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (l *Loader) attachPercentiles(ctx context.Context, records []refdata.Record) error {
	var name string
	err := l.db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name='reference_percentile'`).Scan(&name)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check percentile table: %w", err)
	}

	type key struct {
		measurement, sex, source string
		intervalDays             int
		x                        float64
	}
	index := make(map[key]*refdata.Record, len(records))
	for i := range records {
		rec := &records[i]
		index[key{rec.Measurement, rec.Sex, rec.Source, rec.IntervalDays, rec.X}] = rec
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT measurement, sex, source, interval_days, x, percentile, value
		FROM reference_percentile`)
	if err != nil {
		return fmt.Errorf("select percentiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var k key
		var percentile, value float64
		if err := rows.Scan(&k.measurement, &k.sex, &k.source, &k.intervalDays, &k.x, &percentile, &value); err != nil {
			return fmt.Errorf("scan percentile row: %w", err)
		}
		rec, ok := index[k]
		if !ok {
			return fmt.Errorf("percentile row for unknown reference row %s/%s/%s x=%g",
				k.source, k.measurement, k.sex, k.x)
		}
		if rec.Percentiles == nil {
			rec.Percentiles = make(map[float64]float64)
		}
		rec.Percentiles[percentile] = value
	}
	return rows.Err()
}
