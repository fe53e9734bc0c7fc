// Package registry holds the static catalog of monitored targets.
package registry

import (
	"fmt"

	"github.com/vietddude/sentinel/internal/core/domain"
)

// Registry is the read-only target catalog. Built once at startup,
// safe for concurrent reads without locking.
type Registry struct {
	targets map[domain.TargetID]*domain.Target
	order   []domain.TargetID
}

// New builds a registry from the configured targets.
func New(targets []domain.Target) (*Registry, error) {
	r := &Registry{
		targets: make(map[domain.TargetID]*domain.Target, len(targets)),
		order:   make([]domain.TargetID, 0, len(targets)),
	}
	for i := range targets {
		t := targets[i]
		if _, exists := r.targets[t.ID]; exists {
			return nil, fmt.Errorf("duplicate target id: %s", t.ID)
		}
		r.targets[t.ID] = &t
		r.order = append(r.order, t.ID)
	}
	return r, nil
}

// Get returns the target for an id, or nil if unknown.
func (r *Registry) Get(id domain.TargetID) *domain.Target {
	return r.targets[id]
}

// All returns every target in declaration order.
func (r *Registry) All() []*domain.Target {
	out := make([]*domain.Target, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.targets[id])
	}
	return out
}

// Services returns the service targets in declaration order.
func (r *Registry) Services() []*domain.Target {
	return r.byKind(domain.KindService)
}

// Infrastructure returns the infrastructure targets in declaration order.
func (r *Registry) Infrastructure() []*domain.Target {
	return r.byKind(domain.KindInfrastructure)
}

func (r *Registry) byKind(kind domain.TargetKind) []*domain.Target {
	var out []*domain.Target
	for _, id := range r.order {
		if t := r.targets[id]; t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// Dependencies returns the resolved dependency targets of a target.
func (r *Registry) Dependencies(id domain.TargetID) []*domain.Target {
	t := r.targets[id]
	if t == nil {
		return nil
	}
	var out []*domain.Target
	for _, dep := range t.DependsOn {
		if d := r.targets[dep]; d != nil {
			out = append(out, d)
		}
	}
	return out
}
