package core

import (
	"fmt"
	"sort"
)

type tableKey struct {
	measurement  MeasurementType
	sex          Sex
	source       Source
	intervalDays int
}

// Store is the process-wide read-only collection of growth tables, keyed by
// (measurement, sex, source). It is built once at load time and never
// mutated, so it is safe for concurrent readers without locking.
type Store struct {
	tables map[tableKey]*GrowthTable
}

// NewStore builds a store from validated tables. Duplicate keys are
// rejected: the dataset contract requires exactly one table per
// (measurement, sex, source) — plus the interval length, which
// distinguishes the 1-month and 2-month velocity windows.
func NewStore(tables []*GrowthTable) (*Store, error) {
	m := make(map[tableKey]*GrowthTable, len(tables))
	for _, t := range tables {
		key := tableKey{t.Measurement, t.Sex, t.Source, t.IntervalDays}
		if _, exists := m[key]; exists {
			return nil, fmt.Errorf("duplicate table for %s/%s/%s", t.Source, t.Measurement, t.Sex)
		}
		m[key] = t
	}
	return &Store{tables: m}, nil
}

// Table returns the point-indexed table for an exact (measurement, sex,
// source) key. Velocity tables are retrieved with VelocityTable.
func (s *Store) Table(measurement MeasurementType, sex Sex, source Source) (*GrowthTable, bool) {
	t, ok := s.tables[tableKey{measurement, sex, source, 0}]
	return t, ok
}

// VelocityTable returns the interval-indexed table for the given window.
func (s *Store) VelocityTable(measurement MeasurementType, sex Sex, source Source, intervalDays int) (*GrowthTable, bool) {
	t, ok := s.tables[tableKey{measurement, sex, source, intervalDays}]
	return t, ok
}

// Tables returns all tables in deterministic order (source, measurement,
// sex). Used by dataset validation tooling.
func (s *Store) Tables() []*GrowthTable {
	out := make([]*GrowthTable, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		if out[i].Measurement != out[j].Measurement {
			return out[i].Measurement < out[j].Measurement
		}
		if out[i].Sex != out[j].Sex {
			return out[i].Sex < out[j].Sex
		}
		return out[i].IntervalDays < out[j].IntervalDays
	})
	return out
}

// Len returns the number of tables held.
func (s *Store) Len() int { return len(s.tables) }
