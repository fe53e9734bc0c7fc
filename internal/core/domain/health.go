package domain

import "time"

// HealthStatus represents the classified health of a target or the whole system.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusUnknown   HealthStatus = "unknown"
)

// rank orders statuses for aggregation: the worst status dominates.
func (s HealthStatus) rank() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusUnknown:
		return 1
	case StatusDegraded:
		return 2
	case StatusUnhealthy:
		return 3
	}
	return 1
}

// Worse returns the more severe of the two statuses.
func (s HealthStatus) Worse(other HealthStatus) HealthStatus {
	if other.rank() > s.rank() {
		return other
	}
	return s
}

// ProbeResult is the outcome of a single health check.
type ProbeResult struct {
	Status       HealthStatus  `json:"status"`
	ResponseTime time.Duration `json:"response_time"`
	Detail       string        `json:"detail,omitempty"`
	Err          string        `json:"error,omitempty"`
	CheckedAt    time.Time     `json:"checked_at"`
}

// Success reports whether the probe reached the target at all.
// A Degraded result is still a successful probe; only Unhealthy is a failure.
func (r ProbeResult) Success() bool {
	if r.Err != "" {
		return false
	}
	return r.Status == StatusHealthy || r.Status == StatusDegraded
}

// HealthRecord is the rolling per-target state owned by the tracker.
type HealthRecord struct {
	TargetID            TargetID      `json:"target_id"`
	Status              HealthStatus  `json:"status"`
	ResponseTime        time.Duration `json:"response_time"`
	LastCheckedAt       time.Time     `json:"last_checked_at"`
	ConsecutiveFailures int           `json:"consecutive_failures"`
	LastError           string        `json:"last_error,omitempty"`
}
