package metrics

import "github.com/prometheus/client_golang/prometheus"

// DialogueMetrics exposes counters/histograms for conversation turns and
// booking outcomes.
type DialogueMetrics struct {
	turnsTotal    *prometheus.CounterVec
	bookingsTotal *prometheus.CounterVec
	turnLatency   *prometheus.HistogramVec
}

func NewDialogueMetrics(reg prometheus.Registerer) *DialogueMetrics {
	m := &DialogueMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barberai",
			Subsystem: "dialogue",
			Name:      "turns_total",
			Help:      "Total conversation turns processed",
		}, []string{"language", "action"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barberai",
			Subsystem: "dialogue",
			Name:      "bookings_total",
			Help:      "Total booking side effects applied",
		}, []string{"kind", "status"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "barberai",
			Subsystem: "dialogue",
			Name:      "turn_latency_seconds",
			Help:      "Latency of one planning turn including persistence",
			Buckets:   prometheus.DefBuckets,
		}, []string{"language"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.bookingsTotal, m.turnLatency)
	return m
}

func (m *DialogueMetrics) ObserveTurn(language, action string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(language, action).Inc()
}

func (m *DialogueMetrics) ObserveBooking(kind, status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(kind, status).Inc()
}

func (m *DialogueMetrics) ObserveTurnLatency(language string, seconds float64) {
	if m == nil {
		return
	}
	m.turnLatency.WithLabelValues(language).Observe(seconds)
}
