package core

import "fmt"

// Velocity windows published by the WHO growth velocity standards, in
// days. Increments are tabulated per 1-month and 2-month interval only.
const (
	VelocityInterval1Month = 30
	VelocityInterval2Month = 61
)

func validVelocityInterval(intervalDays int) bool {
	return intervalDays == VelocityInterval1Month || intervalDays == VelocityInterval2Month
}

func velocityIntervalChoices() []string {
	return []string{
		fmt.Sprintf("%d (1-month window)", VelocityInterval1Month),
		fmt.Sprintf("%d (2-month window)", VelocityInterval2Month),
	}
}

// VelocityZScore computes the z-score of a measurement increment taken over
// a fixed window. Velocity standards give L/M/S for the difference between
// two measurements intervalDays apart starting at startAgeDays; both the
// interval and the starting age must match a tabulated row exactly.
func (s *Store) VelocityZScore(measurement MeasurementType, sex Sex, startAgeDays, intervalDays int, delta float64) (float64, error) {
	table, err := s.SelectVelocity(measurement, sex, intervalDays)
	if err != nil {
		return 0, err
	}
	lms, err := Resolve(table, float64(startAgeDays))
	if err != nil {
		return 0, err
	}
	return ZScore(delta, lms)
}
