// Package domain defines the core types shared across the resilience subsystem.
package domain

import "time"

// TargetID identifies a monitored service or infrastructure dependency.
type TargetID string

// TargetKind distinguishes application services from the infrastructure they depend on.
type TargetKind string

const (
	KindService        TargetKind = "service"
	KindInfrastructure TargetKind = "infrastructure"
)

// Criticality is the business impact tier of a target.
type Criticality string

const (
	CriticalityCritical Criticality = "critical"
	CriticalityHigh     Criticality = "high"
	CriticalityMedium   Criticality = "medium"
	CriticalityLow      Criticality = "low"
)

// ProbeKind selects the transport used to check a target.
type ProbeKind string

const (
	ProbeHTTP ProbeKind = "http"
	ProbeTCP  ProbeKind = "tcp"
	ProbeGRPC ProbeKind = "grpc"
)

// ActionKind names a corrective operation the actuator can perform.
type ActionKind string

const (
	ActionClearCache   ActionKind = "clear_cache"
	ActionReconnect    ActionKind = "reconnect_dependency"
	ActionRestart      ActionKind = "restart_process"
	ActionRestartPod   ActionKind = "restart_pod"
	ActionScaleUp      ActionKind = "scale_up"
	ActionNotifyOncall ActionKind = "notify_oncall"
)

// ScaleBounds limits how far a scale_up action may grow a target.
type ScaleBounds struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Target is the immutable configuration of one monitored target.
// Loaded once at startup and never mutated afterwards.
type Target struct {
	ID              TargetID      `yaml:"id"`
	Kind            TargetKind    `yaml:"kind"`
	ProbeKind       ProbeKind     `yaml:"probe"`
	Endpoint        string        `yaml:"endpoint"`
	Criticality     Criticality   `yaml:"criticality"`
	ExpectedLatency time.Duration `yaml:"expected_latency"`
	Actions         []ActionKind  `yaml:"actions"`
	DependsOn       []TargetID    `yaml:"depends_on"`
	Scale           ScaleBounds   `yaml:"scale"`
}

// IsInfrastructure reports whether the target is a raw infrastructure dependency.
func (t *Target) IsInfrastructure() bool {
	return t.Kind == KindInfrastructure
}
