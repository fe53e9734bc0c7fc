// Package notify abstracts the on-call notification channel.
package notify

import (
	"context"
	"log/slog"

	"github.com/vietddude/sentinel/internal/core/domain"
)

// Notifier alerts a human about a new incident. Fire-and-forget: failures are
// logged by callers and never block incident creation.
type Notifier interface {
	NotifyIncident(ctx context.Context, incident *domain.Incident) error
}

// SlogNotifier writes incident alerts to the structured log.
type SlogNotifier struct {
	log *slog.Logger
}

// NewSlogNotifier creates a log-based notifier.
func NewSlogNotifier() *SlogNotifier {
	return &SlogNotifier{log: slog.Default()}
}

// NotifyIncident logs the alert.
func (n *SlogNotifier) NotifyIncident(ctx context.Context, inc *domain.Incident) error {
	n.log.Warn("INCIDENT",
		"id", inc.ID,
		"target", inc.TargetID,
		"severity", inc.Severity,
		"title", inc.Title,
	)
	return nil
}
