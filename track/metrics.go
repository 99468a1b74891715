package track

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus collectors for the tracking layer.
type Metrics struct {
	pollsTotal      *prometheus.CounterVec
	cadenceSwitches *prometheus.CounterVec
	terminalStops   prometheus.Counter
	chatRollbacks   prometheus.Counter
}

// NewMetrics creates tracking metrics and registers them on reg.
// A nil registerer leaves the collectors unregistered.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pollsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "track",
				Name:      "polls_total",
				Help:      "Poll fetches issued by poller kind",
			},
			[]string{"poller"},
		),
		cadenceSwitches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "track",
				Name:      "cadence_switches_total",
				Help:      "List poller transitions between active and idle cadence",
			},
			[]string{"cadence"},
		),
		terminalStops: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "track",
				Name:      "terminal_stops_total",
				Help:      "Status pollers halted by a terminal job status",
			},
		),
		chatRollbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "track",
				Name:      "chat_rollbacks_total",
				Help:      "Optimistic chat turns rolled back after a failed send",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.pollsTotal, m.cadenceSwitches, m.terminalStops, m.chatRollbacks)
	}

	return m
}

// Nil-safe recording helpers; trackers run uninstrumented when metrics are
// not configured.

func (m *Metrics) recordPoll(poller string) {
	if m == nil {
		return
	}
	m.pollsTotal.WithLabelValues(poller).Inc()
}

func (m *Metrics) recordCadence(cadence string) {
	if m == nil {
		return
	}
	m.cadenceSwitches.WithLabelValues(cadence).Inc()
}

func (m *Metrics) recordTerminalStop() {
	if m == nil {
		return
	}
	m.terminalStops.Inc()
}

func (m *Metrics) recordChatRollback() {
	if m == nil {
		return
	}
	m.chatRollbacks.Inc()
}
