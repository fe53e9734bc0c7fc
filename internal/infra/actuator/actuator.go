// Package actuator abstracts the infrastructure-control plane that applies
// corrective actions. The concrete orchestrator integration is pluggable;
// the default implementation only logs the intent.
package actuator

import (
	"context"
	"log/slog"

	"github.com/vietddude/sentinel/internal/core/domain"
)

// Actuator executes one corrective action against a target. Implementations
// report whether the execution call itself succeeded; whether the target
// actually recovered is verified separately by re-probing.
type Actuator interface {
	Execute(ctx context.Context, target *domain.Target, action domain.ActionKind) error
}

// LogActuator records remediation intents without touching infrastructure.
// Used as the default until a real orchestrator integration is wired in.
type LogActuator struct {
	log *slog.Logger
}

// NewLogActuator creates a logging actuator.
func NewLogActuator() *LogActuator {
	return &LogActuator{log: slog.Default()}
}

// Execute logs the remediation intent and reports success.
func (a *LogActuator) Execute(
	ctx context.Context,
	target *domain.Target,
	action domain.ActionKind,
) error {
	switch action {
	case domain.ActionScaleUp:
		a.log.Info("Remediation intent: scale up",
			"target", target.ID,
			"min", target.Scale.Min,
			"max", target.Scale.Max,
		)
	default:
		a.log.Info("Remediation intent",
			"target", target.ID,
			"action", action,
		)
	}
	return nil
}
