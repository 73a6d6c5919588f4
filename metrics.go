package intake

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeRecord    = "record"
	OutcomeAbsent    = "absent"
	OutcomeProvider  = "provider_error"
	OutcomeMalformed = "malformed"
	OutcomeSchema    = "schema_violation"
	OutcomeError     = "error"
)

// Metrics are the Prometheus collectors for extraction requests. A nil
// *Metrics records nothing.
type Metrics struct {
	sectionCalls    *prometheus.CounterVec
	sectionDuration *prometheus.HistogramVec
	records         *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		sectionCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "section_calls_total",
			Help:      "Section extraction calls by section and outcome.",
		}, []string{"section", "outcome"}),
		sectionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "intake",
			Name:      "section_duration_seconds",
			Help:      "Latency of section extraction calls, including parsing.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"section"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "records_total",
			Help:      "Extraction requests by outcome.",
		}, []string{"outcome"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.sectionCalls, m.sectionDuration, m.records} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// outcomeOf classifies err into an outcome label.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrProvider):
		return OutcomeProvider
	case errors.Is(err, ErrMalformedResponse):
		return OutcomeMalformed
	case errors.Is(err, ErrSchemaViolation):
		return OutcomeSchema
	}
	return OutcomeError
}

func (m *Metrics) observeSection(kind SectionKind, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.sectionCalls.WithLabelValues(string(kind), outcomeOf(err)).Inc()
	m.sectionDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
}

func (m *Metrics) observeRecord(found bool, err error) {
	if m == nil {
		return
	}
	outcome := outcomeOf(err)
	if err == nil {
		outcome = OutcomeAbsent
		if found {
			outcome = OutcomeRecord
		}
	}
	m.records.WithLabelValues(outcome).Inc()
}
