package core

import "testing"

// The WHO published row for 9-month-old male weight-for-age, kept verbatim
// so exact-match resolution can be checked against the source values.
const (
	whoWeight9moX = 274
	whoWeight9moL = -0.1600954
	whoWeight9moM = 9.476500305
	whoWeight9moS = 0.11218624
)

func mustTable(t *testing.T, measurement MeasurementType, sex Sex, source Source, axis XAxis, domainMin, domainMax float64, intervalDays int, rows []ReferenceRow) *GrowthTable {
	t.Helper()
	table, err := NewGrowthTable(measurement, sex, source, axis, domainMin, domainMax, intervalDays, rows)
	if err != nil {
		t.Fatalf("build table %s/%s/%s: %v", source, measurement, sex, err)
	}
	return table
}

// newTestStore builds a compact fixture dataset exercising every selection
// path: WHO age bands, newborn and preterm INTERGROWTH tables, a
// weight-for-length pair, and velocity windows.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	weightM0to2 := mustTable(t, MeasurementWeight, SexMale, SourceWHO0to2, XAxisAgeDays, 0, 730, 0, []ReferenceRow{
		{X: 0, L: 0.3487, M: 3.3464, S: 0.14602},
		{X: 91, L: 0.1738, M: 6.3762, S: 0.12619},
		{X: 182, L: 0.0122, M: 7.9340, S: 0.11727},
		{X: whoWeight9moX, L: whoWeight9moL, M: whoWeight9moM, S: whoWeight9moS},
		{X: 365, L: -0.1733, M: 9.6479, S: 0.11164},
		{X: 548, L: -0.1982, M: 10.9385, S: 0.10925},
		{X: 730, L: -0.2026, M: 12.2315, S: 0.10813},
	})

	weightM2to5 := mustTable(t, MeasurementWeight, SexMale, SourceWHO2to5, XAxisAgeDays, 731, 1826, 0, []ReferenceRow{
		{X: 731, L: -0.2026, M: 12.2335, S: 0.10819},
		{X: 1096, L: -0.1697, M: 14.3429, S: 0.10937},
		{X: 1461, L: -0.1281, M: 16.3489, S: 0.11369},
		{X: 1826, L: -0.0925, M: 18.3366, S: 0.12044},
	})

	weightM5to19 := mustTable(t, MeasurementWeight, SexMale, SourceWHO5to19, XAxisAgeDays, 1827, 3652, 0, []ReferenceRow{
		{X: 1827, L: -0.0926, M: 18.3372, S: 0.12045},
		{X: 2557, L: -0.2002, M: 22.7890, S: 0.13454},
		{X: 3652, L: -0.3298, M: 31.2181, S: 0.15576},
	})

	weightF0to2 := mustTable(t, MeasurementWeight, SexFemale, SourceWHO0to2, XAxisAgeDays, 0, 730, 0, []ReferenceRow{
		{X: 0, L: 0.3809, M: 3.2322, S: 0.14171},
		{X: 182, L: 0.0402, M: 7.2970, S: 0.12204},
		{X: 365, L: -0.1789, M: 8.9481, S: 0.12268},
		{X: 730, L: -0.2024, M: 11.4775, S: 0.12103},
	})

	// BMI is not defined at birth: the 0-2y domain deliberately starts
	// at day 1.
	bmiM0to2 := mustTable(t, MeasurementBodyMassIndex, SexMale, SourceWHO0to2, XAxisAgeDays, 1, 730, 0, []ReferenceRow{
		{X: 1, L: 0.0, M: 13.3, S: 0.0907},
		{X: 365, L: 0.2708, M: 17.1236, S: 0.08141},
		{X: 730, L: 0.1655, M: 16.5502, S: 0.08221},
	})

	pretermGrowthM := mustTable(t, MeasurementWeight, SexMale, SourceIntergrowthPretermGrowth, XAxisAgeDays, 189, 448, 0, []ReferenceRow{
		{X: 189, L: 0.0, M: 1.1041, S: 0.17317},
		{X: 280, L: 0.0, M: 3.2735, S: 0.14712},
		{X: 364, L: 0.0, M: 5.5659, S: 0.12695},
		{X: 448, L: 0.0, M: 7.1623, S: 0.11953},
	})

	newbornM := mustTable(t, MeasurementWeight, SexMale, SourceIntergrowthNewborn, XAxisGestationalAgeDays, 231, 300, 0, []ReferenceRow{
		{X: 231, L: 0.1924, M: 1.9815, S: 0.14601},
		{X: 259, L: 0.2131, M: 2.8508, S: 0.12307},
		{X: 280, L: 0.2235, M: 3.3839, S: 0.11260},
		{X: 300, L: 0.2329, M: 3.7672, S: 0.10951},
	})

	veryPretermNewbornM := mustTable(t, MeasurementWeight, SexMale, SourceIntergrowthVeryPretermNewborn, XAxisGestationalAgeDays, 168, 230, 0, []ReferenceRow{
		{X: 168, L: 0.0, M: 0.6965, S: 0.18601},
		{X: 196, L: 0.0, M: 1.2114, S: 0.16689},
		{X: 230, L: 0.0, M: 1.9560, S: 0.14675},
	})

	wflM := mustTable(t, MeasurementWeightForStature, SexMale, SourceWHO0to2, XAxisLengthCM, 45, 110, 0, []ReferenceRow{
		{X: 45, L: -0.3521, M: 2.4410, S: 0.09182},
		{X: 65, L: -0.3521, M: 7.4327, S: 0.08217},
		{X: 87, L: -0.3521, M: 12.1645, S: 0.08274},
		{X: 110, L: -0.3521, M: 18.1473, S: 0.09414},
	})

	wfhM := mustTable(t, MeasurementWeightForStature, SexMale, SourceWHO2to5, XAxisLengthCM, 65, 120, 0, []ReferenceRow{
		{X: 65, L: -0.3833, M: 7.5918, S: 0.08263},
		{X: 87, L: -0.3833, M: 12.3848, S: 0.08282},
		{X: 120, L: -0.3833, M: 21.9129, S: 0.10283},
	})

	weightVel1mo := mustTable(t, MeasurementWeightVelocity, SexMale, SourceWHO0to2, XAxisIntervalDays, 0, 335, VelocityInterval1Month, []ReferenceRow{
		{X: 0, L: 0.8509, M: 1.0230, S: 0.26319},
		{X: 30, L: 0.7128, M: 1.1862, S: 0.24360},
		{X: 61, L: 0.5534, M: 0.9352, S: 0.25316},
	})

	weightVel2mo := mustTable(t, MeasurementWeightVelocity, SexMale, SourceWHO0to2, XAxisIntervalDays, 0, 304, VelocityInterval2Month, []ReferenceRow{
		{X: 0, L: 0.6009, M: 2.2095, S: 0.20439},
		{X: 61, L: 0.4543, M: 1.6305, S: 0.22469},
		{X: 122, L: 0.3339, M: 1.1827, S: 0.25295},
	})

	store, err := NewStore([]*GrowthTable{
		weightM0to2, weightM2to5, weightM5to19, weightF0to2,
		bmiM0to2, pretermGrowthM, newbornM, veryPretermNewbornM,
		wflM, wfhM, weightVel1mo, weightVel2mo,
	})
	if err != nil {
		t.Fatalf("build store: %v", err)
	}
	return store
}
