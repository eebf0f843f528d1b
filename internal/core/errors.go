package core

import (
	"fmt"
	"strings"
)

// NoReferenceDataError is returned when no table or row covers the requested
// (measurement, sex, x) combination. The engine never substitutes a nearby
// table: a different population's reference would be clinically wrong.
type NoReferenceDataError struct {
	Measurement MeasurementType
	Sex         Sex
	X           float64
	Detail      string
}

func (e NoReferenceDataError) Error() string {
	msg := fmt.Sprintf("no reference data for %s sex=%s at x=%g", e.Measurement, e.Sex, e.X)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// InvalidChoiceError is returned when a caller supplies a value outside an
// enumerated domain. It is raised before any table lookup is attempted.
type InvalidChoiceError struct {
	Field string
	Value string
	Valid []string
}

func (e InvalidChoiceError) Error() string {
	if len(e.Valid) == 0 {
		return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s: %q (valid: %s)", e.Field, e.Value, strings.Join(e.Valid, ", "))
}

// DomainError is returned by the inverse transform when the Box-Cox power
// argument 1 + L*S*z is not positive, which happens for extreme z-scores
// combined with certain L and S. It is surfaced rather than returning NaN.
type DomainError struct {
	Z float64
	L float64
	S float64
}

func (e DomainError) Error() string {
	return fmt.Sprintf("LMS inverse undefined: 1 + L*S*z = %g <= 0 (z=%g L=%g S=%g)",
		1+e.L*e.S*e.Z, e.Z, e.L, e.S)
}

// DerivationError is returned at build time when fitting L/M/S to a
// percentile-only row fails to converge. A row that failed derivation must
// never be served.
type DerivationError struct {
	X        float64
	Residual float64
	Detail   string
}

func (e DerivationError) Error() string {
	msg := fmt.Sprintf("LMS derivation failed at x=%g (residual %g)", e.X, e.Residual)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}
