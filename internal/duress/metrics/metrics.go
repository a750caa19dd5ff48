package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	DuressDetected prometheus.Counter
	ShadowActive   prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DuressDetected: factory.NewCounter(prometheus.CounterOpts{
			Name: "sovereign_duress_detected_total",
			Help: "Verifications where the heart rate crossed the duress threshold",
		}),
		ShadowActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sovereign_shadow_mode_active",
			Help: "1 while Shadow Mode is active",
		}),
	}
}

func (m *Metrics) IncrementDuressDetected() {
	if m != nil {
		m.DuressDetected.Inc()
	}
}

func (m *Metrics) SetShadowActive(active bool) {
	if m == nil {
		return
	}
	v := 0.0
	if active {
		v = 1
	}
	m.ShadowActive.Set(v)
}
