package status

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/infra/registry"
	"github.com/vietddude/sentinel/internal/resilience/tracker"
)

type stubIncidents struct {
	mu     sync.Mutex
	active []*domain.Incident
}

func (s *stubIncidents) Active() []*domain.Incident {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *stubIncidents) Resolve(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, inc := range s.active {
		if inc.ID == id {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return true
		}
	}
	return false
}

type stubHistory struct {
	events []domain.RemediationEvent
}

func (s *stubHistory) Recent(limit int) []domain.RemediationEvent {
	if limit > len(s.events) {
		limit = len(s.events)
	}
	return s.events[:limit]
}

type stubSweeper struct {
	mu    sync.Mutex
	calls int
	done  chan struct{}
}

func (s *stubSweeper) RunFullSweep(ctx context.Context) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.done != nil {
		close(s.done)
	}
}

func newTestServer(t *testing.T) (*Server, *tracker.Tracker, *stubIncidents, *stubHistory, *stubSweeper) {
	t.Helper()

	reg, err := registry.New([]domain.Target{
		{ID: "job-service", Kind: domain.KindService, Endpoint: "http://job/health"},
		{ID: "payment-service", Kind: domain.KindService, Endpoint: "http://payment/health"},
		{ID: "postgres", Kind: domain.KindInfrastructure, Endpoint: "postgres:5432"},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	trk := tracker.New()
	incidents := &stubIncidents{}
	history := &stubHistory{}
	sweeper := &stubSweeper{}
	return NewServer(reg, trk, incidents, history, sweeper, 0), trk, incidents, history, sweeper
}

func doRequest(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rr.Body.String())
	}
}

func healthyProbe() domain.ProbeResult {
	return domain.ProbeResult{
		Status:       domain.StatusHealthy,
		ResponseTime: 12 * time.Millisecond,
		CheckedAt:    time.Now(),
	}
}

func failedProbe() domain.ProbeResult {
	return domain.ProbeResult{
		Status:    domain.StatusUnhealthy,
		Err:       "connection refused",
		CheckedAt: time.Now(),
	}
}

func TestHealth_AggregatesAllTargets(t *testing.T) {
	srv, trk, _, _, _ := newTestServer(t)
	trk.RecordResult("job-service", healthyProbe())
	trk.RecordResult("payment-service", healthyProbe())
	trk.RecordResult("postgres", healthyProbe())

	rr := doRequest(t, srv, http.MethodGet, "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var body struct {
		Status  domain.HealthStatus                     `json:"status"`
		Targets map[domain.TargetID]domain.HealthRecord `json:"targets"`
	}
	decode(t, rr, &body)

	if body.Status != domain.StatusHealthy {
		t.Errorf("expected healthy, got %s", body.Status)
	}
	if len(body.Targets) != 3 {
		t.Errorf("expected 3 targets, got %d", len(body.Targets))
	}
}

func TestHealth_UnhealthyOverallIs503(t *testing.T) {
	srv, trk, _, _, _ := newTestServer(t)
	trk.RecordResult("job-service", healthyProbe())
	trk.RecordResult("postgres", failedProbe())

	rr := doRequest(t, srv, http.MethodGet, "/health")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rr.Code)
	}
}

func TestHealth_NeverProbedIsUnknownPlaceholder(t *testing.T) {
	srv, trk, _, _, _ := newTestServer(t)
	trk.RecordResult("job-service", healthyProbe())

	rr := doRequest(t, srv, http.MethodGet, "/health")

	var body struct {
		Targets map[domain.TargetID]domain.HealthRecord `json:"targets"`
	}
	decode(t, rr, &body)

	rec, ok := body.Targets["postgres"]
	if !ok {
		t.Fatal("expected postgres in target list")
	}
	if rec.Status != domain.StatusUnknown {
		t.Errorf("expected unknown for never-probed target, got %s", rec.Status)
	}
}

func TestTargetHealth(t *testing.T) {
	srv, trk, _, _, _ := newTestServer(t)
	trk.RecordResult("job-service", healthyProbe())

	rr := doRequest(t, srv, http.MethodGet, "/health/job-service")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var rec domain.HealthRecord
	decode(t, rr, &rec)
	if rec.TargetID != "job-service" || rec.Status != domain.StatusHealthy {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestTargetHealth_UnknownTargetIs404(t *testing.T) {
	srv, _, _, _, _ := newTestServer(t)

	rr := doRequest(t, srv, http.MethodGet, "/health/no-such-target")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	decode(t, rr, &body)
	if body.Error == "" {
		t.Error("expected structured error payload")
	}
}

func TestTargetHealth_RegisteredButNeverProbed(t *testing.T) {
	srv, _, _, _, _ := newTestServer(t)

	// A registered target without probe data is Unknown, not an error.
	rr := doRequest(t, srv, http.MethodGet, "/health/payment-service")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var rec domain.HealthRecord
	decode(t, rr, &rec)
	if rec.Status != domain.StatusUnknown {
		t.Errorf("expected unknown, got %s", rec.Status)
	}
}

func TestIncidents_EmptyListIsNotNull(t *testing.T) {
	srv, _, _, _, _ := newTestServer(t)

	rr := doRequest(t, srv, http.MethodGet, "/incidents")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body := rr.Body.String(); body == "null\n" {
		t.Error("expected empty array, got null")
	}
}

func TestResolve(t *testing.T) {
	srv, _, incidents, _, _ := newTestServer(t)
	incidents.active = []*domain.Incident{{
		ID:       "inc-1",
		TargetID: "job-service",
		Status:   domain.IncidentOpen,
	}}

	rr := doRequest(t, srv, http.MethodPost, "/incidents/inc-1/resolve")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var body struct {
		Success bool `json:"success"`
	}
	decode(t, rr, &body)
	if !body.Success {
		t.Error("expected success=true")
	}

	rr = doRequest(t, srv, http.MethodPost, "/incidents/inc-1/resolve")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second resolve, got %d", rr.Code)
	}
	decode(t, rr, &body)
	if body.Success {
		t.Error("expected success=false for resolved incident")
	}
}

func TestHistory_Limit(t *testing.T) {
	srv, _, _, history, _ := newTestServer(t)
	for i := 0; i < 10; i++ {
		history.events = append(history.events, domain.RemediationEvent{
			TargetID: "job-service",
			Action:   domain.ActionRestart,
		})
	}

	rr := doRequest(t, srv, http.MethodGet, "/remediation-history?limit=3")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var events []domain.RemediationEvent
	decode(t, rr, &events)
	if len(events) != 3 {
		t.Errorf("expected 3 events, got %d", len(events))
	}
}

func TestHistory_BadLimitIs400(t *testing.T) {
	srv, _, _, _, _ := newTestServer(t)

	for _, raw := range []string{"abc", "-1", "0"} {
		rr := doRequest(t, srv, http.MethodGet, "/remediation-history?limit="+raw)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: expected 400, got %d", raw, rr.Code)
		}
	}
}

func TestCheck_TriggersFullSweep(t *testing.T) {
	srv, _, _, _, sweeper := newTestServer(t)
	sweeper.done = make(chan struct{})

	rr := doRequest(t, srv, http.MethodPost, "/check")
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rr.Code)
	}

	var body struct {
		Triggered bool `json:"triggered"`
	}
	decode(t, rr, &body)
	if !body.Triggered {
		t.Error("expected triggered=true")
	}

	select {
	case <-sweeper.done:
	case <-time.After(time.Second):
		t.Fatal("sweep was never triggered")
	}
}

func TestDashboard(t *testing.T) {
	srv, trk, incidents, history, _ := newTestServer(t)
	trk.RecordResult("job-service", healthyProbe())
	incidents.active = []*domain.Incident{{ID: "inc-1", TargetID: "postgres", Status: domain.IncidentOpen}}
	history.events = []domain.RemediationEvent{{TargetID: "postgres", Action: domain.ActionReconnect}}

	rr := doRequest(t, srv, http.MethodGet, "/dashboard")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var body struct {
		Overview          domain.SystemSummary                    `json:"overview"`
		Targets           map[domain.TargetID]domain.HealthRecord `json:"targets"`
		ActiveIncidents   []*domain.Incident                      `json:"active_incidents"`
		RecentRemediation []domain.RemediationEvent               `json:"recent_remediation"`
	}
	decode(t, rr, &body)

	if len(body.Targets) != 3 {
		t.Errorf("expected 3 targets, got %d", len(body.Targets))
	}
	if len(body.ActiveIncidents) != 1 {
		t.Errorf("expected 1 incident, got %d", len(body.ActiveIncidents))
	}
	if len(body.RecentRemediation) != 1 {
		t.Errorf("expected 1 remediation event, got %d", len(body.RecentRemediation))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _, _, _, _ := newTestServer(t)

	rr := doRequest(t, srv, http.MethodGet, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Body.Len() == 0 {
		t.Error("expected prometheus exposition output")
	}
}
