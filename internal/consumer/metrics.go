package consumer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks per-message processing outcomes.
type Metrics struct {
	processed *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewMetrics registers the consumer metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		processed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clearance_messages_total",
			Help: "Number of processed clearance messages by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "clearance_processing_seconds",
			Help:    "Clearance message processing duration.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Observe records one processed message.
func (m *Metrics) Observe(outcome Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}

	label := "ack"
	if outcome == Requeue {
		label = "requeue"
	}

	m.processed.WithLabelValues(label).Inc()
	m.duration.Observe(elapsed.Seconds())
}
