package cmd

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ossim/ossim/sim"
	"github.com/ossim/ossim/sim/run"
	"github.com/ossim/ossim/sim/workload"
)

// serverMetrics holds the Prometheus collectors exposed on /metrics.
type serverMetrics struct {
	simulations   *prometheus.CounterVec
	failures      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	activeReplays prometheus.Gauge
	historyRuns   prometheus.GaugeFunc
}

// newServerMetrics creates the collectors and registers them with reg.
func newServerMetrics(reg prometheus.Registerer, historyLen func() int) *serverMetrics {
	m := &serverMetrics{
		simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ossim_simulations_total",
			Help: "Completed simulations by kind and algorithm",
		}, []string{"kind", "algorithm"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ossim_simulation_failures_total",
			Help: "Rejected or failed simulation requests by kind and reason (invalid, internal)",
		}, []string{"kind", "reason"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ossim_simulation_duration_ms",
			Help:    "Engine execution time in milliseconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50},
		}, []string{"kind"}),
		activeReplays: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ossim_active_replays",
			Help: "Websocket replays currently streaming frames",
		}),
		historyRuns: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "ossim_history_runs",
			Help: "Runs held in the run history",
		}, func() float64 { return float64(historyLen()) }),
	}
	reg.MustRegister(m.simulations, m.failures, m.duration, m.activeReplays, m.historyRuns)
	return m
}

// observe records one completed run.
func (m *serverMetrics) observe(o *run.Outcome) {
	m.simulations.WithLabelValues(string(o.Kind), o.Algorithm).Inc()
	m.duration.WithLabelValues(string(o.Kind)).Observe(o.ExecutionTimeMs)
}

// fail records one failed request. Kinds outside the known set share the empty
// label so clients cannot grow the series count.
func (m *serverMetrics) fail(kind string, err error) {
	if !workload.IsValidKind(kind) {
		kind = ""
	}
	m.failures.WithLabelValues(kind, failureReason(err)).Inc()
}

func failureReason(err error) string {
	if sim.IsInvalidInput(err) {
		return "invalid"
	}
	return "internal"
}

// replayStarted increments the active replay gauge and returns the matching decrement.
func (m *serverMetrics) replayStarted() (done func()) {
	m.activeReplays.Inc()
	return m.activeReplays.Dec
}
