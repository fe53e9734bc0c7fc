package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Monitor.FastSweepInterval == 0 {
		cfg.Monitor.FastSweepInterval = 30 * time.Second
	}
	if cfg.Monitor.FullSweepInterval == 0 {
		cfg.Monitor.FullSweepInterval = 5 * time.Minute
	}
	if cfg.Monitor.FailureThreshold == 0 {
		cfg.Monitor.FailureThreshold = 3
	}
	if cfg.Monitor.RemediationCooldown == 0 {
		cfg.Monitor.RemediationCooldown = 60 * time.Second
	}
	if cfg.Monitor.SettleDelay == 0 {
		cfg.Monitor.SettleDelay = 5 * time.Second
	}
	if cfg.Monitor.HistoryLimit == 0 {
		cfg.Monitor.HistoryLimit = 200
	}
	if cfg.Monitor.ProbeConcurrency == 0 {
		cfg.Monitor.ProbeConcurrency = 10
	}

	if cfg.Auxiliary.QueueDepth.Interval == 0 {
		cfg.Auxiliary.QueueDepth.Interval = time.Minute
	}
	if cfg.Auxiliary.StuckJobs.Interval == 0 {
		cfg.Auxiliary.StuckJobs.Interval = 5 * time.Minute
	}
	if cfg.Auxiliary.StuckJobs.Table == "" {
		cfg.Auxiliary.StuckJobs.Table = "jobs"
	}
	if cfg.Auxiliary.StuckJobs.ProcessingTimeout == 0 {
		cfg.Auxiliary.StuckJobs.ProcessingTimeout = 30 * time.Minute
	}
	if cfg.Auxiliary.CertExpiry.Interval == 0 {
		cfg.Auxiliary.CertExpiry.Interval = 24 * time.Hour
	}
	if cfg.Auxiliary.CertExpiry.WarnBefore == 0 {
		cfg.Auxiliary.CertExpiry.WarnBefore = 14 * 24 * time.Hour
	}
	if cfg.Auxiliary.Database.Interval == 0 {
		cfg.Auxiliary.Database.Interval = 10 * time.Minute
	}

	for i := range cfg.Targets {
		if cfg.Targets[i].Kind == "" {
			cfg.Targets[i].Kind = "service"
		}
		if cfg.Targets[i].ProbeKind == "" {
			cfg.Targets[i].ProbeKind = "http"
		}
		if cfg.Targets[i].Criticality == "" {
			cfg.Targets[i].Criticality = "medium"
		}
		if cfg.Targets[i].ExpectedLatency == 0 {
			cfg.Targets[i].ExpectedLatency = time.Second
		}
	}
}

func validate(cfg *AppConfig) error {
	seen := make(map[string]bool)
	for _, t := range cfg.Targets {
		if t.ID == "" {
			return fmt.Errorf("target with empty id in config")
		}
		if seen[string(t.ID)] {
			return fmt.Errorf("duplicate target id: %s", t.ID)
		}
		seen[string(t.ID)] = true
		if t.Endpoint == "" {
			return fmt.Errorf("target %s has no endpoint", t.ID)
		}
	}
	for _, t := range cfg.Targets {
		for _, dep := range t.DependsOn {
			if !seen[string(dep)] {
				return fmt.Errorf("target %s depends on unknown target %s", t.ID, dep)
			}
		}
	}
	return nil
}
