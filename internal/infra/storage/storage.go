// Package storage defines the persistence interfaces for the incident archive.
package storage

import (
	"context"
	"time"

	"github.com/vietddude/sentinel/internal/core/domain"
)

// IncidentArchive persists resolved incidents and their remediation trail
// so history survives beyond the in-memory active set.
type IncidentArchive interface {
	// SaveIncident archives an incident (typically on resolution).
	SaveIncident(ctx context.Context, incident *domain.Incident) error

	// SaveEvents archives a batch of remediation events.
	SaveEvents(ctx context.Context, events []domain.RemediationEvent) error

	// RecentIncidents returns the most recently archived incidents.
	RecentIncidents(ctx context.Context, limit int) ([]*domain.Incident, error)
}

// JobInspector inspects the application job store for stuck work.
type JobInspector interface {
	// CountStuck returns the number of jobs processing longer than the timeout.
	CountStuck(ctx context.Context, table string, olderThan time.Duration) (int, error)
}
