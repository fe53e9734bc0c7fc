// Package memory provides an in-memory incident archive for running without a database.
package memory

import (
	"context"
	"sync"

	"github.com/vietddude/sentinel/internal/core/domain"
)

// Archive implements storage.IncidentArchive in memory.
type Archive struct {
	mu        sync.RWMutex
	incidents []*domain.Incident
	events    []domain.RemediationEvent
	maxItems  int
}

// NewArchive creates a new in-memory archive.
func NewArchive() *Archive {
	return &Archive{maxItems: 1000}
}

// SaveIncident archives an incident, replacing an earlier copy with the same id.
func (a *Archive) SaveIncident(ctx context.Context, inc *domain.Incident) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, existing := range a.incidents {
		if existing.ID == inc.ID {
			a.incidents[i] = inc.Clone()
			return nil
		}
	}

	a.incidents = append(a.incidents, inc.Clone())
	if len(a.incidents) > a.maxItems {
		a.incidents = a.incidents[len(a.incidents)-a.maxItems:]
	}
	return nil
}

// SaveEvents archives remediation events.
func (a *Archive) SaveEvents(ctx context.Context, events []domain.RemediationEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.events = append(a.events, events...)
	if len(a.events) > a.maxItems {
		a.events = a.events[len(a.events)-a.maxItems:]
	}
	return nil
}

// RecentIncidents returns the most recently archived incidents, newest first.
func (a *Archive) RecentIncidents(
	ctx context.Context,
	limit int,
) ([]*domain.Incident, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	n := len(a.incidents)
	if limit > n {
		limit = n
	}

	out := make([]*domain.Incident, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, a.incidents[i].Clone())
	}
	return out, nil
}
