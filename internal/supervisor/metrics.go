package supervisor

import "github.com/prometheus/client_golang/prometheus"

var (
	startsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seleniumd",
			Subsystem: "supervisor",
			Name:      "starts_total",
			Help:      "Start attempts by outcome",
		},
		[]string{"outcome"},
	)

	startupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "seleniumd",
			Subsystem: "supervisor",
			Name:      "startup_duration_seconds",
			Help:      "Time from spawn to startup verdict in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"outcome"},
	)

	terminationSignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seleniumd",
			Subsystem: "supervisor",
			Name:      "termination_signals_total",
			Help:      "Termination signals delivered, by what requested them",
		},
		[]string{"source"},
	)

	terminationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seleniumd",
			Subsystem: "supervisor",
			Name:      "termination_failures_total",
			Help:      "Termination signals that could not be delivered",
		},
		[]string{"source"},
	)

	trackedProcesses = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "seleniumd",
			Subsystem: "supervisor",
			Name:      "tracked_processes",
			Help:      "Processes currently held in the target table",
		},
	)
)

func init() {
	prometheus.MustRegister(startsTotal, startupDuration, terminationSignalsTotal, terminationFailuresTotal, trackedProcesses)
}

// Outcome and source label values.
const (
	outcomeLabelReady   = "ready"
	outcomeLabelFailed  = "failed"
	outcomeLabelTimeout = "timeout"
	outcomeLabelCancel  = "canceled"
	outcomeLabelSpawn   = "spawn_error"

	sourceStop     = "stop"
	sourceTimeout  = "timeout"
	sourceFailure  = "startup_failure"
	sourceCancel   = "canceled"
	sourceSweep    = "sweep"
	sourceShutdown = "shutdown"
)
