package tracker

import (
	"sync"
	"testing"
	"time"

	"github.com/vietddude/sentinel/internal/core/domain"
)

func failure(msg string) domain.ProbeResult {
	return domain.ProbeResult{
		Status:    domain.StatusUnhealthy,
		Err:       msg,
		CheckedAt: time.Now(),
	}
}

func success(status domain.HealthStatus) domain.ProbeResult {
	return domain.ProbeResult{
		Status:       status,
		ResponseTime: 10 * time.Millisecond,
		CheckedAt:    time.Now(),
	}
}

func TestRecordResult_FailureCounter(t *testing.T) {
	trk := New()

	for i := 1; i <= 3; i++ {
		rec := trk.RecordResult("job-service", failure("connection refused"))
		if rec.ConsecutiveFailures != i {
			t.Errorf("after %d failures: counter = %d", i, rec.ConsecutiveFailures)
		}
		if rec.Status != domain.StatusUnhealthy {
			t.Errorf("expected unhealthy, got %s", rec.Status)
		}
	}

	// Any successful probe resets the counter, including a degraded one.
	rec := trk.RecordResult("job-service", success(domain.StatusDegraded))
	if rec.ConsecutiveFailures != 0 {
		t.Errorf("expected counter reset, got %d", rec.ConsecutiveFailures)
	}
	if rec.Status != domain.StatusDegraded {
		t.Errorf("expected degraded, got %s", rec.Status)
	}
	if rec.LastError != "" {
		t.Errorf("expected error cleared, got %q", rec.LastError)
	}
}

func TestRecordResult_FailureForcesUnhealthy(t *testing.T) {
	trk := New()

	// A failed probe means unhealthy regardless of the reported status.
	rec := trk.RecordResult("redis", domain.ProbeResult{
		Status:    domain.StatusDegraded,
		Err:       "timeout",
		CheckedAt: time.Now(),
	})
	if rec.Status != domain.StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", rec.Status)
	}
	if rec.ConsecutiveFailures != 1 {
		t.Errorf("expected 1 failure, got %d", rec.ConsecutiveFailures)
	}
}

func TestGet_NeverProbed(t *testing.T) {
	trk := New()
	if _, ok := trk.Get("nope"); ok {
		t.Error("expected false for never-probed target")
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	trk := New()
	trk.RecordResult("job-service", success(domain.StatusHealthy))

	snap := trk.Snapshot()
	rec := snap["job-service"]
	rec.ConsecutiveFailures = 99
	snap["job-service"] = rec

	fresh, _ := trk.Get("job-service")
	if fresh.ConsecutiveFailures != 0 {
		t.Errorf("snapshot mutation leaked into tracker: %d", fresh.ConsecutiveFailures)
	}
}

func TestRecordResult_ConcurrentTargets(t *testing.T) {
	trk := New()
	var wg sync.WaitGroup

	targets := []domain.TargetID{"a", "b", "c", "d"}
	for _, id := range targets {
		wg.Add(1)
		go func(id domain.TargetID) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				trk.RecordResult(id, failure("x"))
			}
		}(id)
	}
	wg.Wait()

	for _, id := range targets {
		rec, ok := trk.Get(id)
		if !ok || rec.ConsecutiveFailures != 100 {
			t.Errorf("target %s: expected 100 failures, got %d", id, rec.ConsecutiveFailures)
		}
	}
}
