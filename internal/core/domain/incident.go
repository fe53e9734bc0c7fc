package domain

import "time"

// IncidentStatus is the lifecycle state of an incident.
type IncidentStatus string

const (
	IncidentOpen          IncidentStatus = "open"
	IncidentInvestigating IncidentStatus = "investigating"
	IncidentMonitoring    IncidentStatus = "monitoring"
	IncidentResolved      IncidentStatus = "resolved"
)

// IncidentSeverity is derived from the target's criticality tier.
type IncidentSeverity string

const (
	SeverityCritical IncidentSeverity = "critical"
	SeverityMajor    IncidentSeverity = "major"
	SeverityMinor    IncidentSeverity = "minor"
)

// SeverityFor maps a target criticality to an incident severity.
func SeverityFor(c Criticality) IncidentSeverity {
	switch c {
	case CriticalityCritical:
		return SeverityCritical
	case CriticalityHigh:
		return SeverityMajor
	default:
		return SeverityMinor
	}
}

// Incident is a tracked record of a target that remediation could not restore.
type Incident struct {
	ID          string             `json:"id"`
	TargetID    TargetID           `json:"target_id"`
	Severity    IncidentSeverity   `json:"severity"`
	Status      IncidentStatus     `json:"status"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	ResolvedAt  *time.Time         `json:"resolved_at,omitempty"`
	Remediation []RemediationEvent `json:"remediation,omitempty"`
}

// Clone returns a deep copy safe to hand to readers.
func (i *Incident) Clone() *Incident {
	out := *i
	if i.ResolvedAt != nil {
		t := *i.ResolvedAt
		out.ResolvedAt = &t
	}
	out.Remediation = make([]RemediationEvent, len(i.Remediation))
	copy(out.Remediation, i.Remediation)
	return &out
}
