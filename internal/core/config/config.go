package config

import (
	"time"

	"github.com/vietddude/sentinel/internal/core/domain"
	redisclient "github.com/vietddude/sentinel/internal/infra/redis"
	"github.com/vietddude/sentinel/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server    ServerConfig       `yaml:"server"`
	Logging   LoggingConfig      `yaml:"logging"`
	Redis     redisclient.Config `yaml:"redis"`
	Database  postgres.Config    `yaml:"database"`
	Monitor   MonitorConfig      `yaml:"monitor"`
	Targets   []domain.Target    `yaml:"targets"`
	Auxiliary AuxiliaryConfig    `yaml:"auxiliary"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// MonitorConfig holds tunables for the control loop.
type MonitorConfig struct {
	FastSweepInterval   time.Duration `yaml:"fast_sweep_interval"`
	FullSweepInterval   time.Duration `yaml:"full_sweep_interval"`
	FailureThreshold    int           `yaml:"failure_threshold"`
	RemediationCooldown time.Duration `yaml:"remediation_cooldown"`
	SettleDelay         time.Duration `yaml:"settle_delay"`
	HistoryLimit        int           `yaml:"history_limit"`
	ProbeConcurrency    int           `yaml:"probe_concurrency"`
}

// AuxiliaryConfig holds settings for the narrow-scope periodic checks.
type AuxiliaryConfig struct {
	QueueDepth QueueDepthConfig `yaml:"queue_depth"`
	StuckJobs  StuckJobsConfig  `yaml:"stuck_jobs"`
	CertExpiry CertExpiryConfig `yaml:"cert_expiry"`
	Database   DatabaseCheck    `yaml:"database"`
}

// QueueDepthConfig configures the Redis job-queue depth check.
type QueueDepthConfig struct {
	Target        domain.TargetID `yaml:"target"`
	Queues        []string        `yaml:"queues"`
	WarnDepth     int64           `yaml:"warn_depth"`
	CriticalDepth int64           `yaml:"critical_depth"`
	Interval      time.Duration   `yaml:"interval"`
}

// StuckJobsConfig configures the stuck-job scan against the jobs table.
type StuckJobsConfig struct {
	Target            domain.TargetID `yaml:"target"`
	Table             string          `yaml:"table"`
	ProcessingTimeout time.Duration   `yaml:"processing_timeout"`
	MaxStuck          int             `yaml:"max_stuck"`
	Interval          time.Duration   `yaml:"interval"`
}

// CertExpiryConfig configures the TLS certificate expiry check.
type CertExpiryConfig struct {
	WarnBefore time.Duration `yaml:"warn_before"`
	Interval   time.Duration `yaml:"interval"`
}

// DatabaseCheck configures the database pool health check.
type DatabaseCheck struct {
	Target   domain.TargetID `yaml:"target"`
	Interval time.Duration   `yaml:"interval"`
}
