package auxiliary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/sentinel/internal/core/config"
	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/resilience/metrics"
)

// QueueInspector reads job-queue depths from the queue backend.
type QueueInspector interface {
	QueueDepth(ctx context.Context, queue string) (int64, error)
}

// QueueDepthCheck watches the application's Redis job queues for backlog.
type QueueDepthCheck struct {
	cfg       config.QueueDepthConfig
	inspector QueueInspector
	log       *slog.Logger
}

// NewQueueDepthCheck creates the queue-depth check.
func NewQueueDepthCheck(cfg config.QueueDepthConfig, inspector QueueInspector) *QueueDepthCheck {
	return &QueueDepthCheck{cfg: cfg, inspector: inspector, log: slog.Default()}
}

func (c *QueueDepthCheck) Name() string            { return "queue-depth" }
func (c *QueueDepthCheck) Interval() time.Duration { return c.cfg.Interval }

// Run inspects every configured queue and reports the worst finding against
// the queue backend target.
func (c *QueueDepthCheck) Run(ctx context.Context) []Observation {
	worst := domain.StatusHealthy
	var detail string
	var errMsg string

	for _, queue := range c.cfg.Queues {
		depth, err := c.inspector.QueueDepth(ctx, queue)
		if err != nil {
			worst = worst.Worse(domain.StatusUnhealthy)
			errMsg = err.Error()
			c.log.Warn("Queue depth check failed", "queue", queue, "error", err)
			continue
		}

		metrics.QueueDepth.WithLabelValues(queue).Set(float64(depth))

		switch {
		case c.cfg.CriticalDepth > 0 && depth >= c.cfg.CriticalDepth:
			worst = worst.Worse(domain.StatusUnhealthy)
			detail = fmt.Sprintf("queue %s depth %d over critical threshold %d", queue, depth, c.cfg.CriticalDepth)
		case c.cfg.WarnDepth > 0 && depth >= c.cfg.WarnDepth:
			worst = worst.Worse(domain.StatusDegraded)
			if detail == "" {
				detail = fmt.Sprintf("queue %s depth %d over warn threshold %d", queue, depth, c.cfg.WarnDepth)
			}
		}
	}

	if worst == domain.StatusHealthy {
		return nil
	}
	return []Observation{problem(c.cfg.Target, worst, detail, errMsg)}
}
