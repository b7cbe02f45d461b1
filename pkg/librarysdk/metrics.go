package librarysdk

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts the session lifecycle events of a Client. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Refreshes     *prometheus.CounterVec
	Retries       prometheus.Counter
	ForcedLogouts prometheus.Counter
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "libris",
			Subsystem: "session",
			Name:      "refreshes_total",
			Help:      "Access token refresh attempts by outcome.",
		}, []string{"result"}),
		Retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "libris",
			Subsystem: "session",
			Name:      "retries_total",
			Help:      "Requests resent after a successful refresh.",
		}),
		ForcedLogouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "libris",
			Subsystem: "session",
			Name:      "forced_logouts_total",
			Help:      "Sessions cleared because a refresh failed.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Refreshes, m.Retries, m.ForcedLogouts)
	}
	return m
}

func (m *Metrics) refreshed(result string) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(result).Inc()
}

func (m *Metrics) retried() {
	if m == nil {
		return
	}
	m.Retries.Inc()
}

func (m *Metrics) forcedLogout() {
	if m == nil {
		return
	}
	m.ForcedLogouts.Inc()
}
