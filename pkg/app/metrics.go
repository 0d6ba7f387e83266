package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pass metrics of one or more Apps.
type Metrics struct {
	passesTotal      *prometheus.CounterVec
	passDuration     *prometheus.HistogramVec
	componentRenders *prometheus.CounterVec
	memoHits         *prometheus.CounterVec
	mutations        prometheus.Counter
}

// NewMetrics registers the pass metrics with reg.
//
// Metrics collected:
//   - <ns>_passes_total: passes by kind (mount, render) and status
//   - <ns>_pass_duration_seconds: pass duration by kind
//   - <ns>_component_renders_total: component renders by component type
//   - <ns>_component_memo_hits_total: reused snapshots by component type
//   - <ns>_backend_mutations_total: backend calls made by passes
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		passesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_total",
			Help:      "Total number of mount and render passes",
		}, []string{"kind", "status"}),

		passDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Pass duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),

		componentRenders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "component_renders_total",
			Help:      "Total number of component renders",
		}, []string{"component"}),

		memoHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "component_memo_hits_total",
			Help:      "Total number of component renders skipped by memoization",
		}, []string{"component"}),

		mutations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_mutations_total",
			Help:      "Total number of backend mutations issued by passes",
		}),
	}
}

func (m *Metrics) recordPass(p Pass) {
	if m == nil {
		return
	}
	status := "ok"
	if p.Err != nil {
		status = "error"
	}
	m.passesTotal.WithLabelValues(p.Kind, status).Inc()
	m.passDuration.WithLabelValues(p.Kind).Observe(p.Duration.Seconds())
	m.mutations.Add(float64(p.Mutations))
}

func (m *Metrics) recordRender(component string, reused bool) {
	if m == nil {
		return
	}
	if reused {
		m.memoHits.WithLabelValues(component).Inc()
		return
	}
	m.componentRenders.WithLabelValues(component).Inc()
}
