package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ProximityAlerts prometheus.Counter
	SnapActions     *prometheus.CounterVec
	LookAways       prometheus.Counter
	MonitorActive   prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProximityAlerts: factory.NewCounter(prometheus.CounterOpts{
			Name: "sovereign_intruder_proximity_alerts_total",
			Help: "Proximity alerts raised by the intruder monitor",
		}),
		SnapActions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sovereign_intruder_snap_actions_total",
			Help: "Snap-Actions by outcome",
		}, []string{"result"}),
		LookAways: factory.NewCounter(prometheus.CounterOpts{
			Name: "sovereign_intruder_look_aways_total",
			Help: "Look-away timeouts fired while locked",
		}),
		MonitorActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sovereign_intruder_monitor_active",
			Help: "1 while the sampling loop runs",
		}),
	}
}

func (m *Metrics) IncrementProximityAlert() {
	if m != nil {
		m.ProximityAlerts.Inc()
	}
}

func (m *Metrics) IncrementSnap(result string) {
	if m != nil {
		m.SnapActions.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncrementLookAway() {
	if m != nil {
		m.LookAways.Inc()
	}
}

func (m *Metrics) SetActive(active bool) {
	if m == nil {
		return
	}
	if active {
		m.MonitorActive.Set(1)
		return
	}
	m.MonitorActive.Set(0)
}
