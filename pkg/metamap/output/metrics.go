package output

import (
	"github.com/metabolite-tools/metamap-go/pkg/metamap/models"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "metamap"

// Metrics holds the per-run gauges exported for a node-exporter textfile collector.
type Metrics struct {
	registry *prometheus.Registry

	rows       *prometheus.GaugeVec
	formulas   *prometheus.GaugeVec
	mapping    *prometheus.GaugeVec
	reference  *prometheus.GaugeVec
	unmatched  prometheus.Gauge
	duration   prometheus.Gauge
	lastRunSec prometheus.Gauge
}

// NewMetrics creates the gauges on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sheet_rows",
			Help:      "Data rows per sheet.",
		}, []string{"sheet"}),
		formulas: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "formulas",
			Help:      "Derived formulas per sheet and status.",
		}, []string{"sheet", "status"}),
		mapping: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "names",
			Help:      "Name lookups per sheet and result.",
		}, []string{"sheet", "result"}),
		reference: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reference_rows",
			Help:      "Reference sheet rows per outcome.",
		}, []string{"outcome"}),
		unmatched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unmatched_formulas",
			Help:      "Distinct formulas without a name.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		lastRunSec: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Start time of the last run.",
		}),
	}
	m.registry.MustRegister(m.rows, m.formulas, m.mapping, m.reference, m.unmatched, m.duration, m.lastRunSec)
	return m
}

// Observe records the counters of r.
func (m *Metrics) Observe(r *models.Report) {
	for _, s := range r.Sheets {
		m.rows.WithLabelValues(s.Name).Set(float64(s.Rows))
		if f := s.Formula; f != nil && !f.Skipped {
			m.formulas.WithLabelValues(s.Name, "valid").Set(float64(f.Valid))
			m.formulas.WithLabelValues(s.Name, "invalid").Set(float64(f.Invalid))
			m.formulas.WithLabelValues(s.Name, "error").Set(float64(f.Error))
		}
		if a := s.Mapping; a != nil && !a.Skipped {
			m.mapping.WithLabelValues(s.Name, "matched").Set(float64(a.Matched))
			m.mapping.WithLabelValues(s.Name, "unmatched").Set(float64(a.Unmatched))
		}
	}
	m.reference.WithLabelValues("mapped").Set(float64(r.Reference.Mapped))
	m.reference.WithLabelValues("skipped").Set(float64(r.Reference.Skipped))
	m.reference.WithLabelValues("duplicate").Set(float64(r.Reference.Duplicates))
	m.unmatched.Set(float64(len(r.UnmatchedFormulas())))
	m.duration.Set(r.Duration.Seconds())
	m.lastRunSec.Set(float64(r.StartedAt.Unix()))
}

// WriteTextfile writes the gauges in the Prometheus text format to path.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// WriteMetrics records r and writes it to path in one step.
func WriteMetrics(path string, r *models.Report) error {
	m := NewMetrics()
	m.Observe(r)
	return m.WriteTextfile(path)
}
