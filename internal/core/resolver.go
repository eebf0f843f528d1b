package core

import "sort"

// Resolve returns the L/M/S parameters of a table at x. An exact row match
// is returned unmodified so published reference values survive bit-for-bit
// at table breakpoints; between rows each parameter is interpolated
// linearly and independently. An x outside the tabulated range by up to
// one tabulation step snaps to the edge row; further out the table must not
// be used. Velocity tables are exact-match only: their z-scores are defined
// per fixed interval, so there is nothing meaningful between rows.
func Resolve(t *GrowthTable, x float64) (ResolvedLMS, error) {
	if t.Axis == XAxisIntervalDays {
		return resolveExact(t, x)
	}

	first, last := t.rows[0], t.rows[len(t.rows)-1]
	if x < first.X {
		if first.X-x <= t.edgeStep(false) {
			return ResolvedLMS{X: x, L: first.L, M: first.M, S: first.S}, nil
		}
		return ResolvedLMS{}, NoReferenceDataError{Measurement: t.Measurement, Sex: t.Sex, X: x,
			Detail: "below tabulated range"}
	}
	if x > last.X {
		if x-last.X <= t.edgeStep(true) {
			return ResolvedLMS{X: x, L: last.L, M: last.M, S: last.S}, nil
		}
		return ResolvedLMS{}, NoReferenceDataError{Measurement: t.Measurement, Sex: t.Sex, X: x,
			Detail: "above tabulated range"}
	}

	// Index of the first row with X >= x.
	hi := sort.Search(len(t.rows), func(i int) bool { return t.rows[i].X >= x })
	if t.rows[hi].X == x {
		row := t.rows[hi]
		return ResolvedLMS{X: x, L: row.L, M: row.M, S: row.S}, nil
	}
	lo := hi - 1
	rowLo, rowHi := t.rows[lo], t.rows[hi]
	frac := (x - rowLo.X) / (rowHi.X - rowLo.X)
	return ResolvedLMS{
		X: x,
		L: rowLo.L + frac*(rowHi.L-rowLo.L),
		M: rowLo.M + frac*(rowHi.M-rowLo.M),
		S: rowLo.S + frac*(rowHi.S-rowLo.S),
	}, nil
}

func resolveExact(t *GrowthTable, x float64) (ResolvedLMS, error) {
	i := sort.Search(len(t.rows), func(i int) bool { return t.rows[i].X >= x })
	if i < len(t.rows) && t.rows[i].X == x {
		row := t.rows[i]
		return ResolvedLMS{X: x, L: row.L, M: row.M, S: row.S}, nil
	}
	return ResolvedLMS{}, NoReferenceDataError{Measurement: t.Measurement, Sex: t.Sex, X: x,
		Detail: "velocity intervals are tabulated at fixed starting ages only"}
}
