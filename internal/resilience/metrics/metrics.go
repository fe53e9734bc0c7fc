package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProbesTotal tracks health probes per target and outcome
	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_probes_total",
			Help: "Total number of health probes executed",
		},
		[]string{"target", "status"},
	)

	// ProbeLatency tracks probe round-trip latency
	ProbeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentinel_probe_latency_seconds",
			Help:    "Health probe latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"target"},
	)

	// TargetStatus exports the current classified status per target
	// (0=healthy, 1=unknown, 2=degraded, 3=unhealthy)
	TargetStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sentinel_target_status",
			Help: "Current health status of a target",
		},
		[]string{"target"},
	)

	// ConsecutiveFailures exports the rolling failure counter per target
	ConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sentinel_consecutive_failures",
			Help: "Consecutive failed probes per target",
		},
		[]string{"target"},
	)

	// RemediationsTotal tracks remediation action executions
	RemediationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_remediations_total",
			Help: "Total number of remediation actions executed",
		},
		[]string{"target", "action", "result"},
	)

	// OpenIncidents tracks the number of currently open incidents
	OpenIncidents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_open_incidents",
			Help: "Number of currently open incidents",
		},
	)

	// IncidentsTotal tracks incident lifecycle transitions
	IncidentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_incidents_total",
			Help: "Total number of incidents created and resolved",
		},
		[]string{"event"},
	)

	// SweepDuration tracks how long each sweep cycle takes
	SweepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentinel_sweep_duration_seconds",
			Help:    "Duration of sweep cycles in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"cycle"},
	)

	// SweepsSkipped tracks cycles skipped because the previous run was still active
	SweepsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_sweeps_skipped_total",
			Help: "Sweep cycles skipped due to an overlapping previous run",
		},
		[]string{"cycle"},
	)

	// QueueDepth exports the observed depth of monitored job queues
	QueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sentinel_queue_depth",
			Help: "Observed depth of monitored job queues",
		},
		[]string{"queue"},
	)

	// DBConnectionPoolUsage exports database pool saturation
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_db_pool_usage_percent",
			Help: "Database connection pool usage percentage",
		},
	)
)

// StatusValue maps a health status string to its gauge value.
func StatusValue(status string) float64 {
	switch status {
	case "healthy":
		return 0
	case "unknown":
		return 1
	case "degraded":
		return 2
	case "unhealthy":
		return 3
	}
	return 1
}
