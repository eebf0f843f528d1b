package core

import (
	"fmt"
	"sort"
)

// ReferenceRow is one tabulated point of a growth table. X is an age in
// days, a length in centimeters, or an interval start age for velocity
// tables, depending on the owning table's axis.
type ReferenceRow struct {
	X float64
	L float64
	M float64
	S float64
	// Derived marks rows whose L/M/S were fitted from published
	// percentile columns rather than taken verbatim from the source.
	Derived bool
}

// GrowthTable is an immutable ordered sequence of reference rows for one
// (measurement, sex, source) combination. Rows are sorted by X ascending
// with no duplicates, and the table must not be used outside
// [DomainMin, DomainMax].
type GrowthTable struct {
	Measurement MeasurementType
	Sex         Sex
	Source      Source
	Axis        XAxis
	DomainMin   float64
	DomainMax   float64
	// IntervalDays is the window length for velocity tables (rows are
	// then keyed by interval start age). Zero for point-indexed tables.
	IntervalDays int

	rows []ReferenceRow
}

// NewGrowthTable validates and constructs a growth table. It enforces the
// row invariants: ascending unique X, S > 0, M > 0, and a domain that
// covers the tabulated range.
func NewGrowthTable(measurement MeasurementType, sex Sex, source Source, axis XAxis, domainMin, domainMax float64, intervalDays int, rows []ReferenceRow) (*GrowthTable, error) {
	if !measurement.Valid() {
		return nil, InvalidChoiceError{Field: "measurement", Value: string(measurement), Valid: measurementChoices()}
	}
	if sex != SexMale && sex != SexFemale {
		return nil, InvalidChoiceError{Field: "sex", Value: string(sex), Valid: []string{"M", "F"}}
	}
	if !source.Valid() {
		return nil, InvalidChoiceError{Field: "source", Value: string(source)}
	}
	if !axis.Valid() {
		return nil, InvalidChoiceError{Field: "x_axis", Value: string(axis)}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("table %s/%s/%s: no rows", source, measurement, sex)
	}
	if measurement.IsVelocity() != (axis == XAxisIntervalDays) {
		return nil, fmt.Errorf("table %s/%s/%s: velocity measurements require the interval axis and vice versa", source, measurement, sex)
	}
	if axis == XAxisIntervalDays && intervalDays <= 0 {
		return nil, fmt.Errorf("table %s/%s/%s: interval-axis table requires a positive interval length", source, measurement, sex)
	}
	if domainMax < domainMin {
		return nil, fmt.Errorf("table %s/%s/%s: domain [%g, %g] inverted", source, measurement, sex, domainMin, domainMax)
	}
	sorted := make([]ReferenceRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })
	for i, row := range sorted {
		if i > 0 && row.X == sorted[i-1].X {
			return nil, fmt.Errorf("table %s/%s/%s: duplicate x=%g", source, measurement, sex, row.X)
		}
		if row.S <= 0 {
			return nil, fmt.Errorf("table %s/%s/%s: S must be positive at x=%g, got %g", source, measurement, sex, row.X, row.S)
		}
		if row.M <= 0 {
			return nil, fmt.Errorf("table %s/%s/%s: M must be positive at x=%g, got %g", source, measurement, sex, row.X, row.M)
		}
	}
	if sorted[0].X < domainMin || sorted[len(sorted)-1].X > domainMax {
		return nil, fmt.Errorf("table %s/%s/%s: rows [%g, %g] exceed domain [%g, %g]",
			source, measurement, sex, sorted[0].X, sorted[len(sorted)-1].X, domainMin, domainMax)
	}
	return &GrowthTable{
		Measurement:  measurement,
		Sex:          sex,
		Source:       source,
		Axis:         axis,
		DomainMin:    domainMin,
		DomainMax:    domainMax,
		IntervalDays: intervalDays,
		rows:         sorted,
	}, nil
}

// Rows returns a copy of the table's rows.
func (t *GrowthTable) Rows() []ReferenceRow {
	out := make([]ReferenceRow, len(t.rows))
	copy(out, t.rows)
	return out
}

// Len returns the number of tabulated rows.
func (t *GrowthTable) Len() int { return len(t.rows) }

// Row returns the i-th tabulated row.
func (t *GrowthTable) Row(i int) ReferenceRow { return t.rows[i] }

// Contains reports whether x lies inside the table's usable domain.
func (t *GrowthTable) Contains(x float64) bool {
	return x >= t.DomainMin && x <= t.DomainMax
}

// edgeStep returns the tabulation step at the lower or upper edge of the
// table, used to decide whether an out-of-range x may snap to the edge row.
func (t *GrowthTable) edgeStep(upper bool) float64 {
	if len(t.rows) < 2 {
		return 0
	}
	if upper {
		return t.rows[len(t.rows)-1].X - t.rows[len(t.rows)-2].X
	}
	return t.rows[1].X - t.rows[0].X
}

// ResolvedLMS is the ephemeral result of resolving a table at one x.
type ResolvedLMS struct {
	X float64
	L float64
	M float64
	S float64
}
