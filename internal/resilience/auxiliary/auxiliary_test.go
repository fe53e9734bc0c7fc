package auxiliary

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/vietddude/sentinel/internal/core/config"
	"github.com/vietddude/sentinel/internal/core/domain"
)

type stubQueueInspector struct {
	depths map[string]int64
	err    error
}

func (s *stubQueueInspector) QueueDepth(ctx context.Context, queue string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.depths[queue], nil
}

func queueConfig() config.QueueDepthConfig {
	return config.QueueDepthConfig{
		Target:        "redis",
		Queues:        []string{"jobs", "emails"},
		WarnDepth:     1000,
		CriticalDepth: 5000,
		Interval:      time.Minute,
	}
}

func TestQueueDepthCheck_BelowThresholdsIsSilent(t *testing.T) {
	inspector := &stubQueueInspector{depths: map[string]int64{"jobs": 10, "emails": 0}}
	check := NewQueueDepthCheck(queueConfig(), inspector)

	if obs := check.Run(context.Background()); len(obs) != 0 {
		t.Errorf("expected no observations, got %v", obs)
	}
}

func TestQueueDepthCheck_WarnDepthIsDegraded(t *testing.T) {
	inspector := &stubQueueInspector{depths: map[string]int64{"jobs": 1500, "emails": 0}}
	check := NewQueueDepthCheck(queueConfig(), inspector)

	obs := check.Run(context.Background())
	if len(obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(obs))
	}
	if obs[0].Target != "redis" {
		t.Errorf("expected observation against redis, got %s", obs[0].Target)
	}
	if obs[0].Result.Status != domain.StatusDegraded {
		t.Errorf("expected degraded, got %s", obs[0].Result.Status)
	}
}

func TestQueueDepthCheck_CriticalDepthIsUnhealthy(t *testing.T) {
	inspector := &stubQueueInspector{depths: map[string]int64{"jobs": 100, "emails": 9000}}
	check := NewQueueDepthCheck(queueConfig(), inspector)

	obs := check.Run(context.Background())
	if len(obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(obs))
	}
	if obs[0].Result.Status != domain.StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", obs[0].Result.Status)
	}
}

func TestQueueDepthCheck_InspectorErrorIsUnhealthy(t *testing.T) {
	inspector := &stubQueueInspector{err: fmt.Errorf("connection refused")}
	check := NewQueueDepthCheck(queueConfig(), inspector)

	obs := check.Run(context.Background())
	if len(obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(obs))
	}
	if obs[0].Result.Status != domain.StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", obs[0].Result.Status)
	}
	if obs[0].Result.Err == "" {
		t.Error("expected error message carried in the observation")
	}
}

type stubJobInspector struct {
	count int
	err   error
}

func (s *stubJobInspector) CountStuck(ctx context.Context, table string, olderThan time.Duration) (int, error) {
	return s.count, s.err
}

func jobsConfig() config.StuckJobsConfig {
	return config.StuckJobsConfig{
		Target:            "postgres",
		Table:             "jobs",
		ProcessingTimeout: 30 * time.Minute,
		MaxStuck:          5,
		Interval:          5 * time.Minute,
	}
}

func TestStuckJobsCheck_OverLimitIsDegraded(t *testing.T) {
	check := NewStuckJobsCheck(jobsConfig(), &stubJobInspector{count: 47})

	obs := check.Run(context.Background())
	if len(obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(obs))
	}
	if obs[0].Target != "postgres" || obs[0].Result.Status != domain.StatusDegraded {
		t.Errorf("unexpected observation: %+v", obs[0])
	}
}

func TestStuckJobsCheck_WithinLimitIsSilent(t *testing.T) {
	check := NewStuckJobsCheck(jobsConfig(), &stubJobInspector{count: 3})
	if obs := check.Run(context.Background()); len(obs) != 0 {
		t.Errorf("expected no observations, got %v", obs)
	}
}

func TestStuckJobsCheck_InspectorErrorIsSilent(t *testing.T) {
	check := NewStuckJobsCheck(jobsConfig(), &stubJobInspector{err: fmt.Errorf("relation does not exist")})
	if obs := check.Run(context.Background()); len(obs) != 0 {
		t.Errorf("expected no observations on inspector error, got %v", obs)
	}
}

type stubDB struct {
	pingErr error
	usage   float64
}

func (s *stubDB) Health(ctx context.Context) error { return s.pingErr }
func (s *stubDB) PoolUsage() float64               { return s.usage }

func dbConfig() config.DatabaseCheck {
	return config.DatabaseCheck{Target: "postgres", Interval: 10 * time.Minute}
}

func TestDatabaseCheck_Healthy(t *testing.T) {
	check := NewDatabaseCheck(dbConfig(), &stubDB{usage: 40})
	if obs := check.Run(context.Background()); len(obs) != 0 {
		t.Errorf("expected no observations, got %v", obs)
	}
}

func TestDatabaseCheck_PingFailureIsUnhealthy(t *testing.T) {
	check := NewDatabaseCheck(dbConfig(), &stubDB{pingErr: fmt.Errorf("connection refused")})

	obs := check.Run(context.Background())
	if len(obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(obs))
	}
	if obs[0].Result.Status != domain.StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", obs[0].Result.Status)
	}
}

func TestDatabaseCheck_PoolSaturationIsDegraded(t *testing.T) {
	check := NewDatabaseCheck(dbConfig(), &stubDB{usage: 95})

	obs := check.Run(context.Background())
	if len(obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(obs))
	}
	if obs[0].Result.Status != domain.StatusDegraded {
		t.Errorf("expected degraded, got %s", obs[0].Result.Status)
	}
}
