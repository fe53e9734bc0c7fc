package remediation

import (
	"sync"

	"github.com/vietddude/sentinel/internal/core/domain"
)

// History is a bounded, append-only ring of remediation events. The bound
// keeps memory constant under sustained target flapping.
type History struct {
	mu     sync.Mutex
	events []domain.RemediationEvent
	limit  int
}

// NewHistory creates a history bounded to limit events.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 200
	}
	return &History{limit: limit}
}

// Append records an event, evicting the oldest when full.
func (h *History) Append(ev domain.RemediationEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.events) >= h.limit {
		// Shift elements left, drop oldest
		copy(h.events, h.events[1:])
		h.events[len(h.events)-1] = ev
	} else {
		h.events = append(h.events, ev)
	}
}

// Recent returns up to limit events across all targets, newest first.
func (h *History) Recent(limit int) []domain.RemediationEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	if limit <= 0 || limit > len(h.events) {
		limit = len(h.events)
	}

	out := make([]domain.RemediationEvent, 0, limit)
	for i := len(h.events) - 1; i >= len(h.events)-limit; i-- {
		out = append(out, h.events[i])
	}
	return out
}

// RecentFor returns up to limit events for one target, newest first.
func (h *History) RecentFor(id domain.TargetID, limit int) []domain.RemediationEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []domain.RemediationEvent
	for i := len(h.events) - 1; i >= 0 && len(out) < limit; i-- {
		if h.events[i].TargetID == id {
			out = append(out, h.events[i])
		}
	}
	return out
}

// Len returns the number of retained events.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}
