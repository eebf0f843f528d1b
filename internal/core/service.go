package core

import (
	"fmt"
	"math"
)

// Request is the boundary form of a query: measurement and sex arrive as
// strings (aliases allowed) and are canonicalized before any table lookup.
type Request struct {
	Measurement string
	Sex         string
	AgeDays     float64
	// GestationalAgeWeeks is completed weeks of gestation at birth;
	// zero means unknown.
	GestationalAgeWeeks float64
	// LengthCM is the stature secondary axis for weight-for-length.
	LengthCM float64
}

// Calculator exposes the query-path operations of the engine over an
// immutable reference store. All methods are safe for concurrent use.
type Calculator struct {
	store   *Store
	metrics *Metrics
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithMetrics attaches query counters to the calculator.
func WithMetrics(m *Metrics) Option {
	return func(c *Calculator) { c.metrics = m }
}

// NewCalculator wraps a reference store with the query API.
func NewCalculator(store *Store, opts ...Option) *Calculator {
	c := &Calculator{store: store}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Calculator) query(req Request) (Query, error) {
	measurement, err := CanonicalMeasurement(req.Measurement)
	if err != nil {
		return Query{}, err
	}
	sex, err := CanonicalSex(req.Sex)
	if err != nil {
		return Query{}, err
	}
	return Query{
		Measurement:         measurement,
		Sex:                 sex,
		AgeDays:             req.AgeDays,
		GestationalAgeWeeks: req.GestationalAgeWeeks,
		LengthCM:            req.LengthCM,
	}, nil
}

func (c *Calculator) resolve(req Request) (ResolvedLMS, error) {
	q, err := c.query(req)
	if err != nil {
		return ResolvedLMS{}, err
	}
	sel, err := c.store.Select(q)
	if err != nil {
		return ResolvedLMS{}, err
	}
	return Resolve(sel.Table, sel.X)
}

// ZScore converts a measurement value to its z-score against the reference
// distribution selected for the request.
func (c *Calculator) ZScore(req Request, value float64) (z float64, err error) {
	defer func() { c.metrics.observe("zscore", err) }()
	lms, err := c.resolve(req)
	if err != nil {
		return 0, err
	}
	return ZScore(value, lms)
}

// Percentile converts a measurement value to its percentile (0-100).
func (c *Calculator) Percentile(req Request, value float64) (p float64, err error) {
	defer func() { c.metrics.observe("percentile", err) }()
	lms, err := c.resolve(req)
	if err != nil {
		return 0, err
	}
	z, err := ZScore(value, lms)
	if err != nil {
		return 0, err
	}
	return PercentileFromZ(z), nil
}

// ValueForZScore maps a target z-score back to a measurement value.
func (c *Calculator) ValueForZScore(req Request, z float64) (v float64, err error) {
	defer func() { c.metrics.observe("value_for_zscore", err) }()
	lms, err := c.resolve(req)
	if err != nil {
		return 0, err
	}
	return ValueForZScore(z, lms)
}

// ValueForPercentile maps a target percentile (0-100) back to a
// measurement value.
func (c *Calculator) ValueForPercentile(req Request, percentile float64) (v float64, err error) {
	defer func() { c.metrics.observe("value_for_percentile", err) }()
	z, err := ZFromPercentile(percentile)
	if err != nil {
		return 0, err
	}
	if math.IsInf(z, 0) || math.IsNaN(z) {
		return 0, InvalidChoiceError{Field: "percentile", Value: "extreme", Valid: []string{"(0, 100) exclusive"}}
	}
	lms, err := c.resolve(req)
	if err != nil {
		return 0, err
	}
	return ValueForZScore(z, lms)
}

// VelocityZScore computes the z-score of a measurement increment over a
// published velocity window starting at the request's age.
func (c *Calculator) VelocityZScore(req Request, intervalDays int, delta float64) (z float64, err error) {
	defer func() { c.metrics.observe("velocity_zscore", err) }()
	q, err := c.query(req)
	if err != nil {
		return 0, err
	}
	// Velocity windows are published at whole-day start ages; truncating a
	// fractional age could land on a different tabulated row.
	if q.AgeDays != math.Trunc(q.AgeDays) {
		return 0, InvalidChoiceError{Field: "age", Value: fmt.Sprintf("%g", q.AgeDays),
			Valid: []string{"whole days for velocity intervals"}}
	}
	return c.store.VelocityZScore(q.Measurement, q.Sex, int(q.AgeDays), intervalDays, delta)
}

// Store returns the underlying reference store.
func (c *Calculator) Store() *Store { return c.store }
