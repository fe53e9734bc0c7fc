// Package tracker owns the rolling per-target health state.
package tracker

import (
	"sync"

	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/resilience/metrics"
)

// DefaultFailureThreshold is the consecutive-failure count at which
// remediation triggers. Tunable via MonitorConfig.
const DefaultFailureThreshold = 3

type entry struct {
	mu  sync.Mutex
	rec domain.HealthRecord
}

// Tracker maintains one HealthRecord per target. Updates for a given target
// are serialized by a per-entry lock; distinct targets never contend.
type Tracker struct {
	mu      sync.RWMutex
	entries map[domain.TargetID]*entry
}

// New creates an empty tracker. Records are created lazily on first probe.
func New() *Tracker {
	return &Tracker{entries: make(map[domain.TargetID]*entry)}
}

func (t *Tracker) entryFor(id domain.TargetID) *entry {
	t.mu.RLock()
	e, ok := t.entries[id]
	t.mu.RUnlock()
	if ok {
		return e
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok = t.entries[id]; ok {
		return e
	}
	e = &entry{rec: domain.HealthRecord{
		TargetID: id,
		Status:   domain.StatusUnknown,
	}}
	t.entries[id] = e
	return e
}

// RecordResult applies one probe result to the target's record and returns the
// updated copy. A successful probe resets the failure counter and adopts the
// prober's classification; a failed probe increments the counter and forces
// the status to unhealthy regardless of what the prober reported.
func (t *Tracker) RecordResult(id domain.TargetID, res domain.ProbeResult) domain.HealthRecord {
	e := t.entryFor(id)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.rec.ResponseTime = res.ResponseTime
	e.rec.LastCheckedAt = res.CheckedAt

	if res.Success() {
		e.rec.Status = res.Status
		e.rec.ConsecutiveFailures = 0
		e.rec.LastError = ""
	} else {
		e.rec.Status = domain.StatusUnhealthy
		e.rec.ConsecutiveFailures++
		e.rec.LastError = res.Err
	}

	metrics.TargetStatus.WithLabelValues(string(id)).Set(metrics.StatusValue(string(e.rec.Status)))
	metrics.ConsecutiveFailures.WithLabelValues(string(id)).Set(float64(e.rec.ConsecutiveFailures))

	return e.rec
}

// Get returns a copy of the target's record, or false if it was never probed.
func (t *Tracker) Get(id domain.TargetID) (domain.HealthRecord, bool) {
	t.mu.RLock()
	e, ok := t.entries[id]
	t.mu.RUnlock()
	if !ok {
		return domain.HealthRecord{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec, true
}

// Snapshot returns copies of all current records keyed by target id.
func (t *Tracker) Snapshot() map[domain.TargetID]domain.HealthRecord {
	t.mu.RLock()
	ids := make([]domain.TargetID, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	t.mu.RUnlock()

	out := make(map[domain.TargetID]domain.HealthRecord, len(ids))
	for _, id := range ids {
		if rec, ok := t.Get(id); ok {
			out[id] = rec
		}
	}
	return out
}
