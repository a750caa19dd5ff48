package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the command channel.
type Metrics struct {
	CommandsReceived *prometheus.CounterVec
	CommandsRejected *prometheus.CounterVec
	TransportErrors  *prometheus.CounterVec
	TransportMode    *prometheus.GaugeVec
}

var modes = []string{"idle", "push", "poll"}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CommandsReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sovereign_commands_received_total",
			Help: "Accepted commands by type and transport",
		}, []string{"command", "transport"}),
		CommandsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sovereign_commands_rejected_total",
			Help: "Rejected commands by type and reason",
		}, []string{"command", "reason"}),
		TransportErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sovereign_command_transport_errors_total",
			Help: "Remote transport failures by transport",
		}, []string{"transport"}),
		TransportMode: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sovereign_command_transport_mode",
			Help: "Active remote transport, 1 for the current mode",
		}, []string{"mode"}),
	}
}

func (m *Metrics) IncrementReceived(command, transport string) {
	if m != nil {
		m.CommandsReceived.WithLabelValues(command, transport).Inc()
	}
}

func (m *Metrics) IncrementRejected(command, reason string) {
	if m != nil {
		m.CommandsRejected.WithLabelValues(command, reason).Inc()
	}
}

func (m *Metrics) IncrementTransportError(transport string) {
	if m != nil {
		m.TransportErrors.WithLabelValues(transport).Inc()
	}
}

func (m *Metrics) SetTransportMode(mode string) {
	if m == nil {
		return
	}
	for _, other := range modes {
		m.TransportMode.WithLabelValues(other).Set(0)
	}
	m.TransportMode.WithLabelValues(mode).Set(1)
}
