package auxiliary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/sentinel/internal/core/config"
	"github.com/vietddude/sentinel/internal/core/domain"
)

// poolWarnPercent is the pool saturation above which the database is
// considered degraded.
const poolWarnPercent = 90

// DBHealth exposes the database-specific signals the check inspects.
type DBHealth interface {
	Health(ctx context.Context) error
	PoolUsage() float64
}

// DatabaseCheck pings the database and watches connection pool saturation.
type DatabaseCheck struct {
	cfg config.DatabaseCheck
	db  DBHealth
	log *slog.Logger
}

// NewDatabaseCheck creates the database check.
func NewDatabaseCheck(cfg config.DatabaseCheck, db DBHealth) *DatabaseCheck {
	return &DatabaseCheck{cfg: cfg, db: db, log: slog.Default()}
}

func (c *DatabaseCheck) Name() string            { return "database" }
func (c *DatabaseCheck) Interval() time.Duration { return c.cfg.Interval }

// Run pings the pool and reports saturation problems.
func (c *DatabaseCheck) Run(ctx context.Context) []Observation {
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := c.db.Health(pingCtx); err != nil {
		return []Observation{problem(c.cfg.Target, domain.StatusUnhealthy, "database ping failed", err.Error())}
	}

	if usage := c.db.PoolUsage(); usage > poolWarnPercent {
		detail := fmt.Sprintf("connection pool %.0f%% saturated", usage)
		return []Observation{problem(c.cfg.Target, domain.StatusDegraded, detail, "")}
	}
	return nil
}
