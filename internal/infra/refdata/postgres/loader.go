// Package postgres serves the reference dataset from a central Postgres
// instance so fleets of services can share one curated copy.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"growthstandards/internal/refdata"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const (
	defaultDriver = "pgx"
	// Default DSN keeps parity with Open defaults while allowing overrides via env.
	defaultDSN = "postgres://localhost/growthstandards?sslmode=disable"
)

var sqlOpen = sql.Open

// Loader reads dataset records from the growth_reference table.
type Loader struct {
	db *sql.DB
}

// Open connects to Postgres using the provided DSN (falls back to defaultDSN)
// and verifies connectivity before returning.
func Open(ctx context.Context, dsn string) (*Loader, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	db, err := sqlOpen(defaultDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Loader{db: db}, nil
}

// Close releases the connection pool.
func (l *Loader) Close() error { return l.db.Close() }

// Load reads every dataset record. Percentile-only rows carry NULL l/m/s and
// their tabulated percentiles in the growth_reference_percentile side table.
func (l *Loader) Load(ctx context.Context) ([]refdata.Record, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT measurement, sex, source, x_axis, x, l, m, s,
		       domain_min, domain_max, interval_days, is_derived
		FROM growth_reference
		ORDER BY source, measurement, sex, interval_days, x`)
	if err != nil {
		return nil, fmt.Errorf("select growth_reference: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []refdata.Record
	for rows.Next() {
		var rec refdata.Record
		var lVal, mVal, sVal sql.NullFloat64
		if err := rows.Scan(&rec.Measurement, &rec.Sex, &rec.Source, &rec.XAxis, &rec.X,
			&lVal, &mVal, &sVal, &rec.DomainMin, &rec.DomainMax, &rec.IntervalDays, &rec.Derived); err != nil {
			return nil, fmt.Errorf("scan growth_reference row: %w", err)
		}
		if mVal.Valid {
			rec.L, rec.M, rec.S = lVal.Float64, mVal.Float64, sVal.Float64
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate growth_reference rows: %w", err)
	}

	if err := l.attachPercentiles(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (l *Loader) attachPercentiles(ctx context.Context, records []refdata.Record) error {
	// The side table is optional: fully compiled datasets omit it. Probe for
	// it explicitly so a transient query failure is not mistaken for absence.
	var exists bool
	err := l.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_name = 'growth_reference_percentile')`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check percentile table: %w", err)
	}
	if !exists {
		return nil
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
		FROM growth_reference_percentile`)
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
