package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	LockTransitionsTotal *prometheus.CounterVec
	UnlockDeniedTotal    prometheus.Counter
	LockActive           *prometheus.GaugeVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LockTransitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sovereign_lock_transitions_total",
			Help: "Total lock state transitions by target mode and trigger",
		}, []string{"mode", "trigger"}),
		UnlockDeniedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "sovereign_lock_unlock_denied_total",
			Help: "Total unlock attempts rejected by cohesion verification",
		}),
		LockActive: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sovereign_lock_active",
			Help: "Current lock mode, 1 for the active mode and 0 otherwise",
		}, []string{"mode"}),
	}
}

func (m *Metrics) IncrementTransition(mode, trigger string) {
	if m != nil {
		m.LockTransitionsTotal.WithLabelValues(mode, trigger).Inc()
	}
}

func (m *Metrics) IncrementUnlockDenied() {
	if m != nil {
		m.UnlockDeniedTotal.Inc()
	}
}

// SetMode marks mode as the only active one among modes.
func (m *Metrics) SetMode(mode string, modes ...string) {
	if m == nil {
		return
	}
	for _, other := range modes {
		m.LockActive.WithLabelValues(other).Set(0)
	}
	m.LockActive.WithLabelValues(mode).Set(1)
}
