package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sdsql"

// Metrics exposes SDSQL server counters/gauges the way the teacher's
// driver/prometheus/collectors package exposes driver stats: a custom
// Collector pulling live numbers at scrape time for gauges (active
// sessions), plus ordinary CounterVecs for monotonic totals (queries by
// operation, commit failures) that handlers increment directly.
type Metrics struct {
	ctx *Context

	activeSessions *prometheus.Desc

	QueriesTotal        *prometheus.CounterVec
	CommitFailuresTotal prometheus.Counter
}

// NewMetrics returns Metrics pulling its gauge values from ctx.
func NewMetrics(ctx *Context) *Metrics {
	return &Metrics{
		ctx: ctx,
		activeSessions: prometheus.NewDesc(
			namespace+"_active_sessions",
			"The number of currently authenticated sessions.",
			nil, nil,
		),
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total QUERY_REQUESTs handled, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		CommitFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commit_failures_total",
			Help:      "Total transaction commits that failed to persist one or more tables.",
		}),
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.activeSessions
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(m.activeSessions, prometheus.GaugeValue, float64(m.ctx.Sessions.Count()))
}

// Register adds m and its CounterVec/Counter children to reg.
func (m *Metrics) Register(reg *prometheus.Registry) error {
	for _, c := range []prometheus.Collector{m, m.QueriesTotal, m.CommitFailuresTotal} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
