package domain

import "time"

// RemediationEvent records one attempt to execute a corrective action.
// Immutable once written; kept in a bounded history.
type RemediationEvent struct {
	ID          string     `json:"id"`
	TargetID    TargetID   `json:"target_id"`
	Action      ActionKind `json:"action"`
	TriggeredAt time.Time  `json:"triggered_at"`
	CompletedAt time.Time  `json:"completed_at"`
	Success     bool       `json:"success"`
	Detail      string     `json:"detail,omitempty"`
}
