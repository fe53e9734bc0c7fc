package auxiliary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/sentinel/internal/core/config"
	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/infra/storage"
)

// StuckJobsCheck scans the application jobs table for work stuck in
// processing past its timeout.
type StuckJobsCheck struct {
	cfg       config.StuckJobsConfig
	inspector storage.JobInspector
	log       *slog.Logger
}

// NewStuckJobsCheck creates the stuck-job check.
func NewStuckJobsCheck(cfg config.StuckJobsConfig, inspector storage.JobInspector) *StuckJobsCheck {
	return &StuckJobsCheck{cfg: cfg, inspector: inspector, log: slog.Default()}
}

func (c *StuckJobsCheck) Name() string            { return "stuck-jobs" }
func (c *StuckJobsCheck) Interval() time.Duration { return c.cfg.Interval }

// Run counts stuck jobs. Inspector errors are swallowed here; database
// reachability is the database check's concern, not this one's.
func (c *StuckJobsCheck) Run(ctx context.Context) []Observation {
	count, err := c.inspector.CountStuck(ctx, c.cfg.Table, c.cfg.ProcessingTimeout)
	if err != nil {
		c.log.Warn("Stuck job check failed", "error", err)
		return nil
	}

	if c.cfg.MaxStuck > 0 && count > c.cfg.MaxStuck {
		detail := fmt.Sprintf(
			"%d jobs processing longer than %v (limit %d)",
			count,
			c.cfg.ProcessingTimeout,
			c.cfg.MaxStuck,
		)
		return []Observation{problem(c.cfg.Target, domain.StatusDegraded, detail, "")}
	}
	return nil
}
