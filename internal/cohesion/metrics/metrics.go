package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the cohesion verifier.
type Metrics struct {
	// Verdicts by reason tag
	Verifications *prometheus.CounterVec

	// Whole check, template load to decision
	VerifyLatency prometheus.Histogram

	// Face+finger capture pair against the window
	ForegroundLatency prometheus.Histogram
}

// New creates a new Metrics instance registered with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sovereign_cohesion_verifications_total",
			Help: "Total cohesion verdicts by reason",
		}, []string{"reason"}),

		VerifyLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sovereign_cohesion_verify_duration_seconds",
			Help:    "Duration of a full cohesion check",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 1.5, 2.5, 5},
		}),

		ForegroundLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sovereign_cohesion_foreground_duration_seconds",
			Help:    "Duration of the concurrent face and finger capture",
			Buckets: []float64{0.1, 0.25, 0.5, 0.75, 1, 1.25, 1.5, 2},
		}),
	}
}

// IncrementVerification records a verdict.
func (m *Metrics) IncrementVerification(reason string) {
	if m != nil {
		m.Verifications.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) ObserveVerifyLatency(d time.Duration) {
	if m != nil {
		m.VerifyLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveForegroundLatency(d time.Duration) {
	if m != nil {
		m.ForegroundLatency.Observe(d.Seconds())
	}
}
