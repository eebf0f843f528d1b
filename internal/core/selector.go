package core

import "fmt"

// Query carries the context needed to pick one reference table. AgeDays is
// postnatal age; GestationalAgeWeeks is completed weeks at birth (zero when
// unknown); LengthCM is the secondary axis for weight-for-length queries.
type Query struct {
	Measurement         MeasurementType
	Sex                 Sex
	AgeDays             float64
	GestationalAgeWeeks float64
	LengthCM            float64
}

// Selection is the outcome of table selection: the authoritative table and
// the x value to resolve it at. X differs from the query's raw age when the
// table is indexed by post-menstrual age, gestational age, or length.
type Selection struct {
	Table *GrowthTable
	X     float64
}

// Select picks exactly one applicable table for a point-indexed query,
// resolving overlaps between standards. Policy, in priority order: preterm
// births with a corrected age inside an INTERGROWTH preterm domain use the
// preterm standard; measurements at birth prefer gestational-age-indexed
// newborn tables; weight-for-length selects on stature with the WHO 87 cm
// convention switch; otherwise the WHO table whose domain contains the age
// wins. Velocity measurements are interval-indexed and go through
// SelectVelocity instead.
func (s *Store) Select(q Query) (Selection, error) {
	if !q.Measurement.Valid() {
		return Selection{}, InvalidChoiceError{Field: "measurement", Value: string(q.Measurement), Valid: measurementChoices()}
	}
	if q.Measurement.IsVelocity() {
		return Selection{}, InvalidChoiceError{Field: "measurement", Value: string(q.Measurement),
			Valid: []string{"point-indexed measurement types; velocity queries use SelectVelocity"}}
	}
	if q.Sex != SexMale && q.Sex != SexFemale {
		return Selection{}, InvalidChoiceError{Field: "sex", Value: string(q.Sex), Valid: []string{"M", "F"}}
	}
	if q.AgeDays < 0 {
		return Selection{}, NoReferenceDataError{Measurement: q.Measurement, Sex: q.Sex, X: q.AgeDays, Detail: "negative age"}
	}

	gestationalDays := q.GestationalAgeWeeks * DaysPerWeek
	preterm := q.GestationalAgeWeeks > 0 && q.GestationalAgeWeeks < PretermGestationalWeeks

	// Preterm postnatal growth is indexed by post-menstrual age and takes
	// precedence over WHO term standards while the corrected age is inside
	// the INTERGROWTH domain.
	if preterm && q.AgeDays > 0 {
		if t, ok := s.Table(q.Measurement, q.Sex, SourceIntergrowthPretermGrowth); ok {
			pma := gestationalDays + q.AgeDays
			if t.Contains(pma) {
				return Selection{Table: t, X: pma}, nil
			}
		}
	}

	// At birth, newborn tables are indexed by gestational age and use
	// finer, gestational-age-adjusted norms. Without a known gestational
	// age there is nothing to index, so fall through to WHO.
	if q.AgeDays == 0 && gestationalDays > 0 {
		if t, ok := s.Table(q.Measurement, q.Sex, SourceIntergrowthVeryPretermNewborn); ok && t.Contains(gestationalDays) {
			return Selection{Table: t, X: gestationalDays}, nil
		}
		if t, ok := s.Table(q.Measurement, q.Sex, SourceIntergrowthNewborn); ok && t.Contains(gestationalDays) {
			return Selection{Table: t, X: gestationalDays}, nil
		}
	}

	if q.Measurement == MeasurementWeightForStature {
		return s.selectWeightForStature(q)
	}

	// WHO tables in ascending age order; at exact domain breakpoints the
	// younger table wins so published rows are preserved bit-for-bit.
	for _, source := range []Source{SourceWHO0to2, SourceWHO2to5, SourceWHO5to19} {
		if t, ok := s.Table(q.Measurement, q.Sex, source); ok && t.Contains(q.AgeDays) {
			return Selection{Table: t, X: q.AgeDays}, nil
		}
	}

	return Selection{}, NoReferenceDataError{
		Measurement: q.Measurement,
		Sex:         q.Sex,
		X:           q.AgeDays,
		Detail:      "no table domain covers this age",
	}
}

func (s *Store) selectWeightForStature(q Query) (Selection, error) {
	if q.LengthCM <= 0 {
		return Selection{}, InvalidChoiceError{Field: "length_cm", Value: fmt.Sprintf("%g", q.LengthCM),
			Valid: []string{"positive stature in cm (weight-for-length selects on length, not age)"}}
	}
	// WHO switches from recumbent length to standing height at 87 cm.
	source := SourceWHO0to2
	if q.LengthCM >= LengthConventionSwitchCM {
		source = SourceWHO2to5
	}
	if t, ok := s.Table(q.Measurement, q.Sex, source); ok && t.Contains(q.LengthCM) {
		return Selection{Table: t, X: q.LengthCM}, nil
	}
	return Selection{}, NoReferenceDataError{
		Measurement: q.Measurement,
		Sex:         q.Sex,
		X:           q.LengthCM,
		Detail:      "no weight-for-length table covers this stature",
	}
}

// SelectVelocity picks the velocity table matching the requested interval
// length exactly. Only the published windows are served; an unpublished
// interval is an invalid choice, while a missing table for a valid interval
// is missing reference data.
func (s *Store) SelectVelocity(measurement MeasurementType, sex Sex, intervalDays int) (*GrowthTable, error) {
	if !measurement.IsVelocity() {
		return nil, InvalidChoiceError{Field: "measurement", Value: string(measurement),
			Valid: []string{string(MeasurementWeightVelocity), string(MeasurementLengthVelocity), string(MeasurementHeadCircumferenceVelocity)}}
	}
	if sex != SexMale && sex != SexFemale {
		return nil, InvalidChoiceError{Field: "sex", Value: string(sex), Valid: []string{"M", "F"}}
	}
	if !validVelocityInterval(intervalDays) {
		return nil, InvalidChoiceError{Field: "interval_days", Value: fmt.Sprintf("%d", intervalDays),
			Valid: velocityIntervalChoices()}
	}
	for _, source := range []Source{SourceWHO0to2, SourceWHO2to5, SourceWHO5to19} {
		if t, ok := s.VelocityTable(measurement, sex, source, intervalDays); ok {
			return t, nil
		}
	}
	return nil, NoReferenceDataError{
		Measurement: measurement,
		Sex:         sex,
		X:           float64(intervalDays),
		Detail:      "no velocity table published for this interval",
	}
}
