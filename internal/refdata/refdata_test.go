package refdata

import (
	"context"
	"math"
	"strings"
	"testing"

	"growthstandards/internal/core"
)

func lmsRecord(x, l, m, s float64) Record {
	return Record{
		Measurement: "weight",
		Sex:         "M",
		Source:      string(core.SourceWHO0to2),
		XAxis:       string(core.XAxisAgeDays),
		X:           x, L: l, M: m, S: s,
		DomainMin: 0, DomainMax: 730,
	}
}

func TestBuildStoreGroupsRecords(t *testing.T) {
	records := []Record{
		lmsRecord(0, 0.3487, 3.3464, 0.14602),
		lmsRecord(182, 0.0122, 7.9340, 0.11727),
		lmsRecord(365, -0.1733, 9.6479, 0.11164),
	}
	store, err := BuildStore(records)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("store holds %d tables, want 1", store.Len())
	}
	table, ok := store.Table(core.MeasurementWeight, core.SexMale, core.SourceWHO0to2)
	if !ok {
		t.Fatal("table not found under canonical key")
	}
	if table.Len() != 3 {
		t.Errorf("table has %d rows, want 3", table.Len())
	}
}

func TestBuildStoreRejectsUncompiled(t *testing.T) {
	rec := lmsRecord(0, 0, 0, 0)
	rec.Percentiles = map[float64]float64{50: 3.3}
	_, err := BuildStore([]Record{rec})
	if err == nil || !strings.Contains(err.Error(), "not compiled") {
		t.Fatalf("expected uncompiled-dataset error, got %v", err)
	}
}

func TestBuildStoreRejectsInconsistentAxis(t *testing.T) {
	a := lmsRecord(0, 0.3, 3.3, 0.14)
	b := lmsRecord(182, 0.0, 7.9, 0.11)
	b.XAxis = string(core.XAxisLengthCM)
	_, err := BuildStore([]Record{a, b})
	if err == nil || !strings.Contains(err.Error(), "inconsistent x axis") {
		t.Fatalf("expected axis mismatch error, got %v", err)
	}
}

func TestCompileDerivesPercentileRows(t *testing.T) {
	want := core.ResolvedLMS{L: -0.1600954, M: 9.476500305, S: 0.11218624}
	percentiles := make(map[float64]float64, len(core.PercentileZScores))
	for p, z := range core.PercentileZScores {
		v, err := core.ValueForZScore(z, want)
		if err != nil {
			t.Fatalf("generate percentile %g: %v", p, err)
		}
		percentiles[p] = v
	}

	rec := lmsRecord(274, 0, 0, 0)
	rec.Percentiles = percentiles

	compiled, err := Compile([]Record{rec})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got := compiled[0]
	if !got.Derived {
		t.Error("compiled record not marked derived")
	}
	if math.Abs(got.M-want.M) > 1e-9 || math.Abs(got.L-want.L) > 1e-3 || math.Abs(got.S-want.S) > 1e-4 {
		t.Errorf("derived (L=%g, M=%g, S=%g), want (%g, %g, %g)", got.L, got.M, got.S, want.L, want.M, want.S)
	}
	// Input slice stays untouched.
	if rec.Derived || rec.M != 0 {
		t.Error("Compile mutated its input")
	}
}

func TestCompileFailsOnBadRow(t *testing.T) {
	rec := lmsRecord(274, 0, 0, 0)
	if _, err := Compile([]Record{rec}); err == nil {
		t.Fatal("expected error for row without LMS or percentiles")
	}

	rec.Percentiles = map[float64]float64{42: 9.0, 50: 9.5}
	if _, err := Compile([]Record{rec}); err == nil || !strings.Contains(err.Error(), "unsupported percentile") {
		t.Fatal("expected unsupported percentile column error")
	}
}

func TestVerifyFlagsDecreasingMedian(t *testing.T) {
	store, err := BuildStore([]Record{
		lmsRecord(0, 0.3, 3.3, 0.14),
		lmsRecord(182, 0.0, 7.9, 0.11),
		lmsRecord(365, -0.1, 7.5, 0.11), // regression: median dips
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	problems := Verify(store)
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1: %v", len(problems), problems)
	}
	if !strings.Contains(problems[0].Error(), "median decreases") {
		t.Errorf("unexpected problem: %v", problems[0])
	}
}

type sliceLoader []Record

func (l sliceLoader) Load(context.Context) ([]Record, error) { return l, nil }

func TestLoadEndToEnd(t *testing.T) {
	store, err := Load(context.Background(), sliceLoader{
		lmsRecord(0, 0.3487, 3.3464, 0.14602),
		lmsRecord(365, -0.1733, 9.6479, 0.11164),
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	calc := core.NewCalculator(store)
	z, err := calc.ZScore(core.Request{Measurement: "wfa", Sex: "M", AgeDays: 365}, 9.6479)
	if err != nil {
		t.Fatalf("zscore: %v", err)
	}
	if math.Abs(z) > 1e-9 {
		t.Errorf("median value z = %g, want 0", z)
	}
}
