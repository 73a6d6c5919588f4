package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	intake "github.com/vivaneiona/genkit-intake"
)

// newMetrics returns extraction collectors on a private registry, so each
// command reports only its own calls.
func newMetrics() (*intake.Metrics, *prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	m, err := intake.NewMetrics(reg)
	if err != nil {
		return nil, nil, err
	}
	return m, reg, nil
}

// logMetrics writes one debug line per gathered sample. Histograms report
// their sample count and sum.
func logMetrics(log *slog.Logger, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		log.Debug("Gathering metrics failed", "error", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			attrs := []any{"metric", mf.GetName()}
			for _, lp := range m.GetLabel() {
				attrs = append(attrs, lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				attrs = append(attrs, "value", m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				attrs = append(attrs, "count", h.GetSampleCount(), "sum_seconds", h.GetSampleSum())
			}
			log.Debug("Metric", attrs...)
		}
	}
}
