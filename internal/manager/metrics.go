package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	probesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "streamdvr",
			Subsystem: "supervisor",
			Name:      "probes_total",
			Help:      "Total live probes by result",
		},
		[]string{"result"},
	)

	capturesStartedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "streamdvr",
		Subsystem: "supervisor",
		Name:      "captures_started_total",
		Help:      "Capture processes launched",
	})

	captureFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "streamdvr",
		Subsystem: "supervisor",
		Name:      "capture_failures_total",
		Help:      "Capture processes that could not be launched",
	})

	capturesFinishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "streamdvr",
			Subsystem: "supervisor",
			Name:      "captures_finished_total",
			Help:      "Captures that ended, by reason",
		},
		[]string{"reason"},
	)

	activeCapturesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "streamdvr",
		Subsystem: "supervisor",
		Name:      "active_captures",
		Help:      "Captures believed running",
	})

	awaitingGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "streamdvr",
		Subsystem: "supervisor",
		Name:      "awaiting",
		Help:      "Live streamers waiting for manual confirmation",
	})

	passDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "streamdvr",
		Subsystem: "supervisor",
		Name:      "pass_duration_seconds",
		Help:      "Duration of reconciliation passes",
		Buckets:   prometheus.DefBuckets,
	})

	streamerPanicsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "streamdvr",
		Subsystem: "supervisor",
		Name:      "streamer_panics_total",
		Help:      "Panics recovered while reconciling a single streamer",
	})
)

func init() {
	prometheus.MustRegister(probesTotal, capturesStartedTotal, captureFailuresTotal, capturesFinishedTotal,
		activeCapturesGauge, awaitingGauge, passDuration, streamerPanicsTotal)
}

// Finish reasons.
const (
	finishExited  = "exited"
	finishStopped = "stopped"
	finishRemoved = "removed"
)
