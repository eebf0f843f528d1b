package core

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts calculator queries and failures by kind. Registration is
// left to the caller so tests and embedders can use private registries.
type Metrics struct {
	queries *prometheus.CounterVec
	errors  *prometheus.CounterVec
}

// NewMetrics constructs unregistered calculator metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "growthstandards_queries_total",
			Help: "Calculator queries served, by operation.",
		}, []string{"op"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "growthstandards_query_errors_total",
			Help: "Calculator queries failed, by operation and error kind.",
		}, []string{"op", "kind"}),
	}
}

// Register registers the metric vectors on the supplied registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	if err := reg.Register(m.queries); err != nil {
		return err
	}
	return reg.Register(m.errors)
}

func (m *Metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(op).Inc()
	if err != nil {
		m.errors.WithLabelValues(op, errorKind(err)).Inc()
	}
}

func errorKind(err error) string {
	var noData NoReferenceDataError
	var invalid InvalidChoiceError
	var domain DomainError
	switch {
	case errors.As(err, &noData):
		return "no_reference_data"
	case errors.As(err, &invalid):
		return "invalid_choice"
	case errors.As(err, &domain):
		return "domain"
	default:
		return "other"
	}
}
