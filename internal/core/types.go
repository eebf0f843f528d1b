// Package core implements the reference resolution and LMS statistical
// engine for child growth standards. It selects the applicable reference
// table for a query, resolves L/M/S shape parameters at an arbitrary
// age or length, and converts measurement values to z-scores and
// percentiles (and back) against WHO and INTERGROWTH-21st distributions.
package core

import (
	"sort"
	"strings"
)

// MeasurementType identifies one anthropometric measurement axis.
type MeasurementType string

const (
	MeasurementWeight                    MeasurementType = "weight"
	MeasurementStature                   MeasurementType = "stature"
	MeasurementHeadCircumference         MeasurementType = "head_circumference"
	MeasurementBodyMassIndex             MeasurementType = "body_mass_index"
	MeasurementWeightForStature          MeasurementType = "weight_stature"
	MeasurementWeightVelocity            MeasurementType = "weight_velocity"
	MeasurementLengthVelocity            MeasurementType = "length_velocity"
	MeasurementHeadCircumferenceVelocity MeasurementType = "head_circumference_velocity"
)

// MeasurementTypes lists every canonical measurement type in stable order.
var MeasurementTypes = []MeasurementType{
	MeasurementWeight,
	MeasurementStature,
	MeasurementHeadCircumference,
	MeasurementBodyMassIndex,
	MeasurementWeightForStature,
	MeasurementWeightVelocity,
	MeasurementLengthVelocity,
	MeasurementHeadCircumferenceVelocity,
}

// Valid reports whether m is one of the canonical measurement types.
func (m MeasurementType) Valid() bool {
	for _, known := range MeasurementTypes {
		if m == known {
			return true
		}
	}
	return false
}

// IsVelocity reports whether m is a growth-velocity measurement, which is
// referenced against interval-indexed tables rather than point-age tables.
func (m MeasurementType) IsVelocity() bool {
	switch m {
	case MeasurementWeightVelocity, MeasurementLengthVelocity, MeasurementHeadCircumferenceVelocity:
		return true
	}
	return false
}

// measurementAliases maps published shorthand codes to canonical types.
// Aliases are matched case-insensitively with '-' normalized to '_'.
var measurementAliases = map[string]MeasurementType{
	"weight":                      MeasurementWeight,
	"wfa":                         MeasurementWeight,
	"weight_for_age":              MeasurementWeight,
	"stature":                     MeasurementStature,
	"height":                      MeasurementStature,
	"length":                      MeasurementStature,
	"hfa":                         MeasurementStature,
	"lfa":                         MeasurementStature,
	"lhfa":                        MeasurementStature,
	"height_for_age":              MeasurementStature,
	"length_for_age":              MeasurementStature,
	"head_circumference":          MeasurementHeadCircumference,
	"hcfa":                        MeasurementHeadCircumference,
	"head_circumference_for_age":  MeasurementHeadCircumference,
	"body_mass_index":             MeasurementBodyMassIndex,
	"bmi":                         MeasurementBodyMassIndex,
	"bfa":                         MeasurementBodyMassIndex,
	"bmi_for_age":                 MeasurementBodyMassIndex,
	"weight_stature":              MeasurementWeightForStature,
	"wfl":                         MeasurementWeightForStature,
	"wfh":                         MeasurementWeightForStature,
	"weight_for_length":           MeasurementWeightForStature,
	"weight_for_height":           MeasurementWeightForStature,
	"weight_velocity":             MeasurementWeightVelocity,
	"wv":                          MeasurementWeightVelocity,
	"length_velocity":             MeasurementLengthVelocity,
	"lv":                          MeasurementLengthVelocity,
	"head_circumference_velocity": MeasurementHeadCircumferenceVelocity,
	"hcv":                         MeasurementHeadCircumferenceVelocity,
}

// CanonicalMeasurement resolves a measurement name or published alias to its
// canonical type. Resolution happens at the API boundary; selection logic
// only ever sees canonical values.
func CanonicalMeasurement(name string) (MeasurementType, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if mt, ok := measurementAliases[normalized]; ok {
		return mt, nil
	}
	return "", InvalidChoiceError{Field: "measurement", Value: name, Valid: measurementChoices()}
}

func measurementChoices() []string {
	out := make([]string, 0, len(MeasurementTypes))
	for _, m := range MeasurementTypes {
		out = append(out, string(m))
	}
	sort.Strings(out)
	return out
}

// Sex is the biological sex axis of the reference standards. No standard
// publishes a sex-unspecified table, so SexUnknown is only ever a caller-side
// value and is rejected by table selection.
type Sex string

const (
	SexMale    Sex = "M"
	SexFemale  Sex = "F"
	SexUnknown Sex = "U"
)

// CanonicalSex normalizes a sex code ("m", "F", "male", ...) to M/F/U.
func CanonicalSex(code string) (Sex, error) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "M", "MALE":
		return SexMale, nil
	case "F", "FEMALE":
		return SexFemale, nil
	case "U", "UNKNOWN", "":
		return SexUnknown, nil
	}
	return "", InvalidChoiceError{Field: "sex", Value: code, Valid: []string{"M", "F", "U"}}
}

// Source identifies which published standard a table came from. Domains of
// tables for the same measurement and sex may overlap in raw age across
// sources; the selector, not the table, decides which is authoritative.
type Source string

const (
	SourceWHO0to2                       Source = "who_growth_0_2"
	SourceWHO2to5                       Source = "who_growth_2_5"
	SourceWHO5to19                      Source = "who_growth_5_19"
	SourceIntergrowthNewborn            Source = "intergrowth_newborn"
	SourceIntergrowthVeryPretermNewborn Source = "intergrowth_very_preterm_newborn"
	SourceIntergrowthPretermGrowth      Source = "intergrowth_preterm_growth"
)

// Sources lists every known standard source in stable order.
var Sources = []Source{
	SourceWHO0to2,
	SourceWHO2to5,
	SourceWHO5to19,
	SourceIntergrowthNewborn,
	SourceIntergrowthVeryPretermNewborn,
	SourceIntergrowthPretermGrowth,
}

// Valid reports whether s is a known standard source.
func (s Source) Valid() bool {
	for _, known := range Sources {
		if s == known {
			return true
		}
	}
	return false
}

// XAxis is the semantic of a table's x column. Values are pre-normalized by
// the ETL contract: day units for age axes, centimeters for length axes.
type XAxis string

const (
	XAxisAgeDays            XAxis = "age_days"
	XAxisGestationalAgeDays XAxis = "gestational_age_days"
	XAxisLengthCM           XAxis = "length_cm"
	XAxisIntervalDays       XAxis = "interval_days"
)

// Valid reports whether x is a known x-axis semantic.
func (x XAxis) Valid() bool {
	switch x {
	case XAxisAgeDays, XAxisGestationalAgeDays, XAxisLengthCM, XAxisIntervalDays:
		return true
	}
	return false
}

// Calendar constants shared with the ETL contract. A month is the mean
// Gregorian month, matching the WHO tabulation convention.
const (
	DaysPerWeek  = 7
	DaysPerMonth = 30.44
	DaysPerYear  = 365.25
)

// AgeToDays converts a calendar age expressed in years, months and days to
// fractional days using the mean Gregorian constants above, matching the
// convention the age axes are tabulated in.
func AgeToDays(years, months, days float64) float64 {
	return years*DaysPerYear + months*DaysPerMonth + days
}

// PretermGestationalWeeks is the completed-weeks threshold below which a
// birth is preterm and INTERGROWTH preterm standards take precedence.
const PretermGestationalWeeks = 37

// LengthConventionSwitchCM is the stature at which WHO switches from
// recumbent length to standing height (87 cm, around 24 months).
const LengthConventionSwitchCM = 87.0
