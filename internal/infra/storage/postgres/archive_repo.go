package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vietddude/sentinel/internal/core/domain"
)

// ArchiveRepo implements storage.IncidentArchive using PostgreSQL.
type ArchiveRepo struct {
	db *DB
}

// NewArchiveRepo creates a new PostgreSQL incident archive.
func NewArchiveRepo(db *DB) *ArchiveRepo {
	return &ArchiveRepo{db: db}
}

// SaveIncident archives an incident.
func (r *ArchiveRepo) SaveIncident(ctx context.Context, inc *domain.Incident) error {
	query := `
		INSERT INTO incident_archive (id, target_id, severity, status, title, description, created_at, updated_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at, resolved_at = EXCLUDED.resolved_at
	`
	_, err := r.db.ExecContext(
		ctx,
		query,
		inc.ID,
		inc.TargetID,
		inc.Severity,
		inc.Status,
		inc.Title,
		inc.Description,
		inc.CreatedAt,
		inc.UpdatedAt,
		inc.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to archive incident: %w", err)
	}
	return nil
}

// SaveEvents archives a batch of remediation events.
func (r *ArchiveRepo) SaveEvents(ctx context.Context, events []domain.RemediationEvent) error {
	query := `
		INSERT INTO remediation_archive (id, target_id, action, triggered_at, completed_at, success, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	for _, ev := range events {
		_, err := r.db.ExecContext(
			ctx,
			query,
			ev.ID,
			ev.TargetID,
			ev.Action,
			ev.TriggeredAt,
			ev.CompletedAt,
			ev.Success,
			ev.Detail,
		)
		if err != nil {
			return fmt.Errorf("failed to archive remediation event: %w", err)
		}
	}
	return nil
}

// RecentIncidents returns the most recently archived incidents.
func (r *ArchiveRepo) RecentIncidents(
	ctx context.Context,
	limit int,
) ([]*domain.Incident, error) {
	query := `
		SELECT id, target_id, severity, status, title, description, created_at, updated_at, resolved_at
		FROM incident_archive
		ORDER BY created_at DESC
		LIMIT $1
	`

	var rows []struct {
		ID          string     `db:"id"`
		TargetID    string     `db:"target_id"`
		Severity    string     `db:"severity"`
		Status      string     `db:"status"`
		Title       string     `db:"title"`
		Description string     `db:"description"`
		CreatedAt   time.Time  `db:"created_at"`
		UpdatedAt   time.Time  `db:"updated_at"`
		ResolvedAt  *time.Time `db:"resolved_at"`
	}

	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query incident archive: %w", err)
	}

	var incidents []*domain.Incident
	for _, row := range rows {
		incidents = append(incidents, &domain.Incident{
			ID:          row.ID,
			TargetID:    domain.TargetID(row.TargetID),
			Severity:    domain.IncidentSeverity(row.Severity),
			Status:      domain.IncidentStatus(row.Status),
			Title:       row.Title,
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
			ResolvedAt:  row.ResolvedAt,
		})
	}
	return incidents, nil
}

// CountStuck returns the number of jobs processing longer than the timeout.
func (r *ArchiveRepo) CountStuck(
	ctx context.Context,
	table string,
	olderThan time.Duration,
) (int, error) {
	// Table name comes from static configuration, not user input.
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE status = 'processing' AND started_at < NOW() - $1::interval
	`, table)

	var count int
	interval := fmt.Sprintf("%d seconds", int(olderThan.Seconds()))
	if err := r.db.GetContext(ctx, &count, query, interval); err != nil {
		return 0, fmt.Errorf("failed to count stuck jobs: %w", err)
	}
	return count, nil
}
