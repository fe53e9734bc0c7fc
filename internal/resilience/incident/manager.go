// Package incident tracks targets that remediation could not restore.
package incident

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/infra/notify"
	"github.com/vietddude/sentinel/internal/infra/storage"
	"github.com/vietddude/sentinel/internal/resilience/metrics"
)

// trailingEvents bounds how many remediation events an incident carries.
const trailingEvents = 5

// EventSource supplies the recent remediation trail for a target.
type EventSource interface {
	RecentFor(id domain.TargetID, limit int) []domain.RemediationEvent
}

// Manager owns the active-incident index. At most one open incident exists
// per target; a second detection updates the existing incident instead of
// duplicating it.
type Manager struct {
	notifier notify.Notifier
	archive  storage.IncidentArchive
	events   EventSource
	log      *slog.Logger

	mu       sync.Mutex
	active   map[domain.TargetID]*domain.Incident
	resolved []*domain.Incident
	maxKept  int
}

// NewManager creates an incident manager. The archive may be nil when no
// durable store is configured.
func NewManager(notifier notify.Notifier, archive storage.IncidentArchive, events EventSource) *Manager {
	return &Manager{
		notifier: notifier,
		archive:  archive,
		events:   events,
		log:      slog.Default(),
		active:   make(map[domain.TargetID]*domain.Incident),
		maxKept:  100,
	}
}

// CreateOrUpdate opens an incident for the target, or refreshes the open one.
// The notifier fires exactly once per new incident, never on updates.
func (m *Manager) CreateOrUpdate(target *domain.Target, rec domain.HealthRecord) *domain.Incident {
	m.mu.Lock()

	if inc, ok := m.active[target.ID]; ok {
		inc.UpdatedAt = time.Now()
		inc.Description = describe(rec)
		if m.events != nil {
			inc.Remediation = m.events.RecentFor(target.ID, trailingEvents)
		}
		out := inc.Clone()
		m.mu.Unlock()

		m.log.Info("Updated open incident", "id", inc.ID, "target", target.ID)
		return out
	}

	now := time.Now()
	inc := &domain.Incident{
		ID:          uuid.NewString(),
		TargetID:    target.ID,
		Severity:    domain.SeverityFor(target.Criticality),
		Status:      domain.IncidentOpen,
		Title:       fmt.Sprintf("%s is unhealthy and automatic remediation failed", target.ID),
		Description: describe(rec),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if m.events != nil {
		inc.Remediation = m.events.RecentFor(target.ID, trailingEvents)
	}
	m.active[target.ID] = inc
	out := inc.Clone()
	m.mu.Unlock()

	metrics.OpenIncidents.Set(float64(m.activeCount()))
	metrics.IncidentsTotal.WithLabelValues("created").Inc()
	m.log.Error("Opened incident",
		"id", inc.ID,
		"target", target.ID,
		"severity", inc.Severity,
	)

	// Notification loss must never block incident creation.
	if err := m.notifier.NotifyIncident(context.Background(), out); err != nil {
		m.log.Warn("Failed to notify on-call", "incident", inc.ID, "error", err)
	}

	return out
}

// Resolve marks an incident resolved and moves it out of the active set.
// Unknown or already-resolved ids report false and leave state unchanged.
func (m *Manager) Resolve(id string) bool {
	m.mu.Lock()

	var inc *domain.Incident
	for targetID, candidate := range m.active {
		if candidate.ID == id {
			inc = candidate
			delete(m.active, targetID)
			break
		}
	}
	if inc == nil {
		m.mu.Unlock()
		return false
	}

	now := time.Now()
	inc.Status = domain.IncidentResolved
	inc.UpdatedAt = now
	inc.ResolvedAt = &now

	m.resolved = append(m.resolved, inc)
	if len(m.resolved) > m.maxKept {
		m.resolved = m.resolved[len(m.resolved)-m.maxKept:]
	}
	out := inc.Clone()
	m.mu.Unlock()

	metrics.OpenIncidents.Set(float64(m.activeCount()))
	metrics.IncidentsTotal.WithLabelValues("resolved").Inc()
	m.log.Info("Resolved incident", "id", id, "target", out.TargetID)

	m.archiveResolved(out)
	return true
}

// ResolveForTarget resolves the open incident for a target, if any. Used by
// the full sweep when a probed target shows sustained recovery.
func (m *Manager) ResolveForTarget(id domain.TargetID) bool {
	m.mu.Lock()
	inc, ok := m.active[id]
	m.mu.Unlock()
	if !ok {
		return false
	}
	return m.Resolve(inc.ID)
}

// ActiveFor returns a copy of the open incident for a target, if any.
func (m *Manager) ActiveFor(id domain.TargetID) *domain.Incident {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inc, ok := m.active[id]; ok {
		return inc.Clone()
	}
	return nil
}

// Active returns copies of all open incidents.
func (m *Manager) Active() []*domain.Incident {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.Incident, 0, len(m.active))
	for _, inc := range m.active {
		out = append(out, inc.Clone())
	}
	return out
}

// RecentResolved returns copies of recently resolved incidents, newest first.
func (m *Manager) RecentResolved(limit int) []*domain.Incident {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.resolved)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]*domain.Incident, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.resolved[i].Clone())
	}
	return out
}

func (m *Manager) activeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// archiveResolved persists the resolved incident best-effort.
func (m *Manager) archiveResolved(inc *domain.Incident) {
	if m.archive == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.archive.SaveIncident(ctx, inc); err != nil {
		m.log.Warn("Failed to archive incident", "id", inc.ID, "error", err)
		return
	}
	if len(inc.Remediation) > 0 {
		if err := m.archive.SaveEvents(ctx, inc.Remediation); err != nil {
			m.log.Warn("Failed to archive remediation events", "incident", inc.ID, "error", err)
		}
	}
}

func describe(rec domain.HealthRecord) string {
	if rec.LastError != "" {
		return fmt.Sprintf(
			"%d consecutive failed probes, last error: %s",
			rec.ConsecutiveFailures,
			rec.LastError,
		)
	}
	return fmt.Sprintf("%d consecutive failed probes", rec.ConsecutiveFailures)
}
