// Package refdata defines the compiled reference dataset contract and
// turns dataset records into an immutable core.Store. Loaders for the
// concrete storage formats live under internal/infra/refdata.
package refdata

import (
	"context"
	"fmt"
	"sort"

	"growthstandards/internal/core"
)

// Record is one row of the compiled reference dataset. X is pre-normalized
// by the upstream ETL: days for age axes, centimeters for length axes.
// Rows published without explicit L/M/S carry their percentile columns
// instead and are completed by Compile before a store can be built.
type Record struct {
	Measurement  string
	Sex          string
	Source       string
	XAxis        string
	X            float64
	L            float64
	M            float64
	S            float64
	DomainMin    float64
	DomainMax    float64
	IntervalDays int
	Derived      bool
	// Percentiles maps percentile (3, 5, ... 97) to the published value
	// for rows that ship without fitted LMS parameters.
	Percentiles map[float64]float64
}

// HasLMS reports whether the record carries usable LMS parameters. M is
// strictly positive in every published standard, so a zero M marks a
// percentile-only row.
func (r Record) HasLMS() bool { return r.M > 0 }

// Loader is implemented by the dataset storage adapters (CSV file, SQLite
// package, Postgres).
type Loader interface {
	Load(ctx context.Context) ([]Record, error)
}

type groupKey struct {
	measurement  core.MeasurementType
	sex          core.Sex
	source       core.Source
	intervalDays int
}

type group struct {
	axis      core.XAxis
	domainMin float64
	domainMax float64
	rows      []core.ReferenceRow
}

// BuildStore validates records and assembles them into the read-only
// reference store. Records must already carry LMS parameters; run Compile
// first when the dataset includes percentile-only rows.
func BuildStore(records []Record) (*core.Store, error) {
	groups := make(map[groupKey]*group)
	order := make([]groupKey, 0)

	for i, rec := range records {
		if !rec.HasLMS() {
			return nil, fmt.Errorf("record %d (%s/%s/%s x=%g): missing LMS parameters; dataset not compiled",
				i, rec.Source, rec.Measurement, rec.Sex, rec.X)
		}
		measurement, err := core.CanonicalMeasurement(rec.Measurement)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		sex, err := core.CanonicalSex(rec.Sex)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		source := core.Source(rec.Source)
		if !source.Valid() {
			return nil, fmt.Errorf("record %d: unknown source %q", i, rec.Source)
		}
		axis := core.XAxis(rec.XAxis)
		if !axis.Valid() {
			return nil, fmt.Errorf("record %d: unknown x axis %q", i, rec.XAxis)
		}

		key := groupKey{measurement, sex, source, rec.IntervalDays}
		g, ok := groups[key]
		if !ok {
			g = &group{axis: axis, domainMin: rec.DomainMin, domainMax: rec.DomainMax}
			groups[key] = g
			order = append(order, key)
		} else {
			if g.axis != axis {
				return nil, fmt.Errorf("table %s/%s/%s: inconsistent x axis (%s vs %s)",
					source, measurement, sex, g.axis, axis)
			}
			if g.domainMin != rec.DomainMin || g.domainMax != rec.DomainMax {
				return nil, fmt.Errorf("table %s/%s/%s: inconsistent domain", source, measurement, sex)
			}
		}
		g.rows = append(g.rows, core.ReferenceRow{X: rec.X, L: rec.L, M: rec.M, S: rec.S, Derived: rec.Derived})
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.source != b.source {
			return a.source < b.source
		}
		if a.measurement != b.measurement {
			return a.measurement < b.measurement
		}
		if a.sex != b.sex {
			return a.sex < b.sex
		}
		return a.intervalDays < b.intervalDays
	})

	tables := make([]*core.GrowthTable, 0, len(order))
	for _, key := range order {
		g := groups[key]
		table, err := core.NewGrowthTable(key.measurement, key.sex, key.source, g.axis,
			g.domainMin, g.domainMax, key.intervalDays, g.rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return core.NewStore(tables)
}

// Load reads all records from a loader, compiles any percentile-only rows,
// and builds the store. This is the one-stop entry point used by commands.
func Load(ctx context.Context, loader Loader) (*core.Store, error) {
	records, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	compiled, err := Compile(records)
	if err != nil {
		return nil, err
	}
	return BuildStore(compiled)
}
