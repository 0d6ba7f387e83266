package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the stream metrics.
type metrics struct {
	sessionsActive prometheus.Gauge
	bytesSent      prometheus.Counter
	framesSent     *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer, namespace string) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "sessions_active",
			Help:      "Number of open websocket sessions",
		}),

		bytesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "bytes_sent_total",
			Help:      "Total bytes written to websocket clients",
		}),

		framesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "frames_sent_total",
			Help:      "Total frames written to websocket clients by type",
		}, []string{"type"}),
	}
}

func (m *metrics) sessionOpened() {
	if m != nil {
		m.sessionsActive.Inc()
	}
}

func (m *metrics) sessionClosed() {
	if m != nil {
		m.sessionsActive.Dec()
	}
}

func (m *metrics) frameSent(frameType string, n int) {
	if m == nil {
		return
	}
	m.framesSent.WithLabelValues(frameType).Inc()
	m.bytesSent.Add(float64(n))
}
