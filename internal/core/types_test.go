package core

import (
	"errors"
	"math"
	"testing"
)

func TestCanonicalMeasurementAliases(t *testing.T) {
	cases := map[string]MeasurementType{
		"weight":                      MeasurementWeight,
		"wfa":                         MeasurementWeight,
		"Weight-For-Age":              MeasurementWeight,
		"stature":                     MeasurementStature,
		"height":                      MeasurementStature,
		"length":                      MeasurementStature,
		"hfa":                         MeasurementStature,
		"lfa":                         MeasurementStature,
		"lhfa":                        MeasurementStature,
		"head_circumference":          MeasurementHeadCircumference,
		"hcfa":                        MeasurementHeadCircumference,
		"bmi":                         MeasurementBodyMassIndex,
		"bfa":                         MeasurementBodyMassIndex,
		"body-mass-index":             MeasurementBodyMassIndex,
		"wfl":                         MeasurementWeightForStature,
		"wfh":                         MeasurementWeightForStature,
		"weight_for_length":           MeasurementWeightForStature,
		"weight_velocity":             MeasurementWeightVelocity,
		"length_velocity":             MeasurementLengthVelocity,
		"head_circumference_velocity": MeasurementHeadCircumferenceVelocity,
	}
	for alias, want := range cases {
		got, err := CanonicalMeasurement(alias)
		if err != nil {
			t.Errorf("alias %q: %v", alias, err)
			continue
		}
		if got != want {
			t.Errorf("alias %q resolved to %s, want %s", alias, got, want)
		}
	}
}

// Every canonical measurement type must resolve to itself so callers can
// pass canonical names and aliases interchangeably.
func TestCanonicalMeasurementClosedOverCanonicals(t *testing.T) {
	for _, m := range MeasurementTypes {
		got, err := CanonicalMeasurement(string(m))
		if err != nil {
			t.Errorf("canonical %q not resolvable: %v", m, err)
			continue
		}
		if got != m {
			t.Errorf("canonical %q resolved to %q", m, got)
		}
	}
}

func TestCanonicalMeasurementRejectsUnknown(t *testing.T) {
	var invalid InvalidChoiceError
	for _, bad := range []string{"", "girth", "weight kg", "wfa2"} {
		if _, err := CanonicalMeasurement(bad); !errors.As(err, &invalid) {
			t.Errorf("%q: expected InvalidChoiceError, got %v", bad, err)
		}
	}
}

func TestCanonicalSex(t *testing.T) {
	cases := map[string]Sex{
		"M": SexMale, "m": SexMale, "male": SexMale,
		"F": SexFemale, "female": SexFemale,
		"U": SexUnknown, "unknown": SexUnknown, "": SexUnknown,
	}
	for code, want := range cases {
		got, err := CanonicalSex(code)
		if err != nil {
			t.Errorf("%q: %v", code, err)
			continue
		}
		if got != want {
			t.Errorf("%q resolved to %s, want %s", code, got, want)
		}
	}
	if _, err := CanonicalSex("x"); err == nil {
		t.Error("expected rejection of unknown sex code")
	}
}

func TestMeasurementIsVelocity(t *testing.T) {
	velocities := map[MeasurementType]bool{
		MeasurementWeight:                    false,
		MeasurementStature:                   false,
		MeasurementHeadCircumference:         false,
		MeasurementBodyMassIndex:             false,
		MeasurementWeightForStature:          false,
		MeasurementWeightVelocity:            true,
		MeasurementLengthVelocity:            true,
		MeasurementHeadCircumferenceVelocity: true,
	}
	for m, want := range velocities {
		if got := m.IsVelocity(); got != want {
			t.Errorf("%s.IsVelocity() = %v, want %v", m, got, want)
		}
	}
}

func TestAgeToDays(t *testing.T) {
	cases := []struct {
		years, months, days float64
		want                float64
	}{
		{0, 0, 274, 274},
		{1, 0, 0, 365.25},
		{0, 9, 0, 273.96},
		{2, 3, 0.18, 2*365.25 + 3*30.44 + 0.18},
	}
	for _, tc := range cases {
		if got := AgeToDays(tc.years, tc.months, tc.days); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("AgeToDays(%g, %g, %g) = %g, want %g", tc.years, tc.months, tc.days, got, tc.want)
		}
	}
}
