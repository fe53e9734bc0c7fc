// Package control wires the resilience subsystem together and manages its
// lifecycle.
package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/vietddude/sentinel/internal/core/config"
	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/infra/actuator"
	"github.com/vietddude/sentinel/internal/infra/notify"
	redisclient "github.com/vietddude/sentinel/internal/infra/redis"
	"github.com/vietddude/sentinel/internal/infra/registry"
	"github.com/vietddude/sentinel/internal/infra/storage"
	"github.com/vietddude/sentinel/internal/infra/storage/memory"
	"github.com/vietddude/sentinel/internal/infra/storage/postgres"
	"github.com/vietddude/sentinel/internal/resilience/auxiliary"
	"github.com/vietddude/sentinel/internal/resilience/incident"
	"github.com/vietddude/sentinel/internal/resilience/probe"
	"github.com/vietddude/sentinel/internal/resilience/remediation"
	"github.com/vietddude/sentinel/internal/resilience/status"
	"github.com/vietddude/sentinel/internal/resilience/sweep"
	"github.com/vietddude/sentinel/internal/resilience/tracker"
)

// Config holds the application configuration.
type Config struct {
	Port      int
	Monitor   config.MonitorConfig
	Targets   []domain.Target
	Auxiliary config.AuxiliaryConfig
	Redis     redisclient.Config
	Database  postgres.Config
}

// Sentinel is the main application struct that manages the control loop
// lifecycle.
type Sentinel struct {
	cfg          Config
	registry     *registry.Registry
	tracker      *tracker.Tracker
	engine       *remediation.Engine
	incidents    *incident.Manager
	coordinator  *sweep.Coordinator
	statusServer *status.Server
	db           *postgres.DB
	redisClient  *redisclient.Client
	log          *slog.Logger
}

// NewSentinel creates a new Sentinel instance with all dependencies initialized.
func NewSentinel(cfg Config) (*Sentinel, error) {
	// 1. Target Registry
	reg, err := registry.New(cfg.Targets)
	if err != nil {
		return nil, fmt.Errorf("failed to build target registry: %w", err)
	}

	// 2. Probing and tracking
	prober := probe.New()
	trk := tracker.New()

	// 3. Remediation
	act := actuator.NewLogActuator()
	engine := remediation.NewEngine(remediation.Config{
		Cooldown:     cfg.Monitor.RemediationCooldown,
		SettleDelay:  cfg.Monitor.SettleDelay,
		HistoryLimit: cfg.Monitor.HistoryLimit,
	}, prober, trk, act)

	// 4. Incident archive: PostgreSQL when configured, in-memory otherwise
	var archive storage.IncidentArchive
	var db *postgres.DB
	if cfg.Database.URL != "" {
		db, err = postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}

		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}

		archive = postgres.NewArchiveRepo(db)
		slog.Info("Using PostgreSQL incident archive")
	} else {
		archive = memory.NewArchive()
		slog.Info("Using in-memory incident archive")
	}

	// 5. Incident Manager
	notifier := notify.NewSlogNotifier()
	incidents := incident.NewManager(notifier, archive, engine.History())

	// 6. Auxiliary checks
	var checks []auxiliary.Check
	var redisClient *redisclient.Client

	if cfg.Redis.URL != "" && len(cfg.Auxiliary.QueueDepth.Queues) > 0 {
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("Failed to connect to Redis, queue-depth check disabled", "error", err)
		} else if reg.Get(cfg.Auxiliary.QueueDepth.Target) != nil {
			checks = append(checks, auxiliary.NewQueueDepthCheck(cfg.Auxiliary.QueueDepth, redisClient))
			slog.Info("Queue-depth check initialized",
				"queues", len(cfg.Auxiliary.QueueDepth.Queues),
			)
		}
	}

	if db != nil {
		if reg.Get(cfg.Auxiliary.StuckJobs.Target) != nil {
			repo := postgres.NewArchiveRepo(db)
			checks = append(checks, auxiliary.NewStuckJobsCheck(cfg.Auxiliary.StuckJobs, repo))
			slog.Info("Stuck-job check initialized", "table", cfg.Auxiliary.StuckJobs.Table)
		}
		if reg.Get(cfg.Auxiliary.Database.Target) != nil {
			checks = append(checks, auxiliary.NewDatabaseCheck(cfg.Auxiliary.Database, db))
			slog.Info("Database check initialized")
		}
	}

	checks = append(checks, auxiliary.NewCertExpiryCheck(cfg.Auxiliary.CertExpiry, reg))

	// 7. Schedule Coordinator
	coordinator := sweep.New(
		sweep.Config{
			FastInterval:     cfg.Monitor.FastSweepInterval,
			FullInterval:     cfg.Monitor.FullSweepInterval,
			FailureThreshold: cfg.Monitor.FailureThreshold,
			ProbeConcurrency: cfg.Monitor.ProbeConcurrency,
		},
		reg,
		prober,
		trk,
		engine,
		incidents,
		checks,
		sweep.LogSummaryEmitter{},
	)

	// 8. Status API
	statusServer := status.NewServer(reg, trk, incidents, engine.History(), coordinator, cfg.Port)

	return &Sentinel{
		cfg:          cfg,
		registry:     reg,
		tracker:      trk,
		engine:       engine,
		incidents:    incidents,
		coordinator:  coordinator,
		statusServer: statusServer,
		db:           db,
		redisClient:  redisClient,
		log:          slog.Default(),
	}, nil
}

// Start starts the status server and the periodic cycles.
func (s *Sentinel) Start(ctx context.Context) error {
	go func() {
		if err := s.statusServer.Start(); err != nil {
			s.log.Error("Status server failed", "error", err)
		}
	}()

	if s.db != nil {
		s.db.StartMetricsCollector(ctx)
	}

	s.coordinator.Start(ctx)

	// Populate records promptly instead of waiting for the first tick.
	go s.coordinator.RunFullSweep(ctx)

	s.log.Info("Sentinel started",
		"targets", len(s.registry.All()),
		"port", s.cfg.Port,
	)
	return nil
}

// Stop stops the sentinel.
func (s *Sentinel) Stop(ctx context.Context) error {
	s.log.Info("Stopping Sentinel...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.log.Warn("Failed to close Redis", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.log.Warn("Failed to close database", "error", err)
		}
	}

	return s.statusServer.Stop(ctx)
}
