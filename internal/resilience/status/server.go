// Package status exposes the read-only HTTP surface for dashboards and
// on-call tooling.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/infra/registry"
)

// HealthReader serves health record snapshots.
type HealthReader interface {
	Snapshot() map[domain.TargetID]domain.HealthRecord
	Get(id domain.TargetID) (domain.HealthRecord, bool)
}

// IncidentStore is the incident surface the API exposes.
type IncidentStore interface {
	Active() []*domain.Incident
	Resolve(id string) bool
}

// HistoryReader serves recent remediation events.
type HistoryReader interface {
	Recent(limit int) []domain.RemediationEvent
}

// SweepTrigger forces a full sweep outside the normal schedule.
type SweepTrigger interface {
	RunFullSweep(ctx context.Context)
}

// Server provides the HTTP endpoints of the status API.
type Server struct {
	registry  *registry.Registry
	tracker   HealthReader
	incidents IncidentStore
	history   HistoryReader
	sweeper   SweepTrigger
	server    *http.Server
}

// NewServer creates a new status server.
func NewServer(
	reg *registry.Registry,
	tracker HealthReader,
	incidents IncidentStore,
	history HistoryReader,
	sweeper SweepTrigger,
	port int,
) *Server {
	mux := http.NewServeMux()
	s := &Server{
		registry:  reg,
		tracker:   tracker,
		incidents: incidents,
		history:   history,
		sweeper:   sweeper,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/{target}", s.handleTargetHealth)
	mux.HandleFunc("GET /incidents", s.handleIncidents)
	mux.HandleFunc("POST /incidents/{id}/resolve", s.handleResolve)
	mux.HandleFunc("GET /remediation-history", s.handleHistory)
	mux.HandleFunc("POST /check", s.handleCheck)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the route table for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snapshot := s.tracker.Snapshot()
	summary := domain.Summarize(snapshot)

	targets := make(map[domain.TargetID]domain.HealthRecord, len(s.registry.All()))
	for _, t := range s.registry.All() {
		targets[t.ID] = s.recordOrPlaceholder(t.ID)
	}

	code := http.StatusOK
	if summary.Overall == domain.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status":  summary.Overall,
		"counts":  summary.Counts,
		"targets": targets,
	})
}

func (s *Server) handleTargetHealth(w http.ResponseWriter, r *http.Request) {
	id := domain.TargetID(r.PathValue("target"))
	if s.registry.Get(id) == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": fmt.Sprintf("unknown target: %s", id),
		})
		return
	}

	writeJSON(w, http.StatusOK, s.recordOrPlaceholder(id))
}

func (s *Server) handleIncidents(w http.ResponseWriter, r *http.Request) {
	incidents := s.incidents.Active()
	if incidents == nil {
		incidents = []*domain.Incident{}
	}
	writeJSON(w, http.StatusOK, incidents)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ok := s.incidents.Resolve(id)

	code := http.StatusOK
	if !ok {
		code = http.StatusNotFound
	}
	writeJSON(w, code, map[string]any{"success": ok})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	events := s.history.Recent(limit)
	if events == nil {
		events = []domain.RemediationEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	// Run outside the request context so a closed connection cannot cancel
	// the sweep midway.
	go s.sweeper.RunFullSweep(context.Background())
	writeJSON(w, http.StatusAccepted, map[string]any{"triggered": true})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snapshot := s.tracker.Snapshot()
	summary := domain.Summarize(snapshot)

	targets := make(map[domain.TargetID]domain.HealthRecord, len(s.registry.All()))
	for _, t := range s.registry.All() {
		targets[t.ID] = s.recordOrPlaceholder(t.ID)
	}

	incidents := s.incidents.Active()
	if incidents == nil {
		incidents = []*domain.Incident{}
	}
	events := s.history.Recent(20)
	if events == nil {
		events = []domain.RemediationEvent{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"overview":           summary,
		"targets":            targets,
		"active_incidents":   incidents,
		"recent_remediation": events,
	})
}

// recordOrPlaceholder returns the tracked record, or an Unknown placeholder
// for a target that has never been probed.
func (s *Server) recordOrPlaceholder(id domain.TargetID) domain.HealthRecord {
	if rec, ok := s.tracker.Get(id); ok {
		return rec
	}
	return domain.HealthRecord{
		TargetID:  id,
		Status:    domain.StatusUnknown,
		LastError: "target has not been probed yet",
	}
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
