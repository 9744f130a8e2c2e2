package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/voicereach/voicereach-backend/internal/models"
)

// QueueRepository gives access to the legacy call queue. The engine does not
// consume this table; it exists so stop can cancel leftover queued items and
// so the status endpoint can report queue counts from older deployments.
type QueueRepository interface {
	// CancelQueued marks all still-queued items for a campaign cancelled,
	// returning how many were affected.
	CancelQueued(ctx context.Context, campaignID string) (int64, error)
	CountByStatus(ctx context.Context, campaignID string) (map[string]int64, error)
}

// queueRepository implements QueueRepository using PostgreSQL
type queueRepository struct {
	db *sql.DB
}

// NewQueueRepository creates a new call queue repository
func NewQueueRepository(db *sql.DB) QueueRepository {
	return &queueRepository{db: db}
}

// CancelQueued cancels all queued items for a campaign
func (r *queueRepository) CancelQueued(ctx context.Context, campaignID string) (int64, error) {
	query := `
		UPDATE call_queue
		SET status = $1
		WHERE campaign_id = $2 AND status = $3`

	result, err := r.db.ExecContext(ctx, query, models.QueueStatusCancelled, campaignID, models.QueueStatusQueued)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel queued items: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected, nil
}

// CountByStatus aggregates queue item counts per status for a campaign
func (r *queueRepository) CountByStatus(ctx context.Context, campaignID string) (map[string]int64, error) {
	query := `
		SELECT status, COUNT(*)
		FROM call_queue
		WHERE campaign_id = $1
		GROUP BY status`

	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate call queue: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan queue aggregate: %w", err)
		}
		counts[status] = n
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating queue aggregates: %w", err)
	}

	return counts, nil
}
