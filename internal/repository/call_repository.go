package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/voicereach/voicereach-backend/internal/models"
)

// CallRepository defines the interface for campaign call data access
type CallRepository interface {
	Create(ctx context.Context, call *models.CampaignCall) error
	GetByID(ctx context.Context, id string) (*models.CampaignCall, error)
	List(ctx context.Context, filter models.CampaignCallFilter) ([]*models.CampaignCall, int64, error)

	// MarkDispatched records the provider identifiers after a successful dispatch.
	MarkDispatched(ctx context.Context, id, callSID, roomName string) error
	// MarkFailed terminates the call attempt with the failure message in notes.
	MarkFailed(ctx context.Context, id, notes string) error

	CountByStatus(ctx context.Context, campaignID string) (map[string]int64, error)
	CountByOutcome(ctx context.Context, campaignID string) (map[string]int64, error)
}

const callColumns = `id, campaign_id, contact_id, phone_number, contact_name, status,
		outcome, call_sid, room_name, notes, started_at, completed_at, created_at`

// callRepository implements CallRepository using PostgreSQL
type callRepository struct {
	db *sql.DB
}

// NewCallRepository creates a new call repository
func NewCallRepository(db *sql.DB) CallRepository {
	return &callRepository{db: db}
}

// Create inserts a new campaign call record
func (r *callRepository) Create(ctx context.Context, call *models.CampaignCall) error {
	if call.ID == "" {
		call.ID = uuid.New().String()
	}
	query := `
		INSERT INTO campaign_calls (id, campaign_id, contact_id, phone_number, contact_name, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		call.ID,
		call.CampaignID,
		call.ContactID,
		call.PhoneNumber,
		call.ContactName,
		call.Status,
		call.StartedAt,
	).Scan(&call.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create campaign call: %w", err)
	}

	return nil
}

func scanCall(row interface {
	Scan(dest ...interface{}) error
}) (*models.CampaignCall, error) {
	call := &models.CampaignCall{}
	err := row.Scan(
		&call.ID,
		&call.CampaignID,
		&call.ContactID,
		&call.PhoneNumber,
		&call.ContactName,
		&call.Status,
		&call.Outcome,
		&call.CallSID,
		&call.RoomName,
		&call.Notes,
		&call.StartedAt,
		&call.CompletedAt,
		&call.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return call, nil
}

// GetByID retrieves a campaign call by ID
func (r *callRepository) GetByID(ctx context.Context, id string) (*models.CampaignCall, error) {
	query := fmt.Sprintf(`SELECT %s FROM campaign_calls WHERE id = $1`, callColumns)

	call, err := scanCall(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("campaign call with ID %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign call: %w", err)
	}

	return call, nil
}

// List retrieves campaign calls with paging, filtering and sorting
func (r *callRepository) List(ctx context.Context, filter models.CampaignCallFilter) ([]*models.CampaignCall, int64, error) {
	filter.Normalize()

	query := fmt.Sprintf(`SELECT %s FROM campaign_calls WHERE campaign_id = $1`, callColumns)
	countQuery := `SELECT COUNT(*) FROM campaign_calls WHERE campaign_id = $1`
	args := []interface{}{filter.CampaignID}
	argPos := 2

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		countQuery += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}

	if filter.Outcome != "" {
		query += fmt.Sprintf(" AND outcome = $%d", argPos)
		countQuery += fmt.Sprintf(" AND outcome = $%d", argPos)
		args = append(args, filter.Outcome)
		argPos++
	}

	var totalCount int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count campaign calls: %w", err)
	}

	// SortBy/SortOrder are whitelisted by Normalize, safe to interpolate.
	query += fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", filter.SortBy, filter.SortOrder, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list campaign calls: %w", err)
	}
	defer rows.Close()

	calls := []*models.CampaignCall{}
	for rows.Next() {
		call, err := scanCall(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan campaign call: %w", err)
		}
		calls = append(calls, call)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating campaign calls: %w", err)
	}

	return calls, totalCount, nil
}

// MarkDispatched stores provider identifiers on a successfully dispatched call
func (r *callRepository) MarkDispatched(ctx context.Context, id, callSID, roomName string) error {
	query := `
		UPDATE campaign_calls
		SET call_sid = $1, room_name = $2
		WHERE id = $3`

	return r.execExpectingRow(ctx, id, query, callSID, roomName, id)
}

// MarkFailed terminates a call attempt with failure notes
func (r *callRepository) MarkFailed(ctx context.Context, id, notes string) error {
	query := `
		UPDATE campaign_calls
		SET status = $1, notes = $2, completed_at = NOW()
		WHERE id = $3`

	return r.execExpectingRow(ctx, id, query, models.CallStatusFailed, notes, id)
}

// CountByStatus aggregates call counts per status for a campaign
func (r *callRepository) CountByStatus(ctx context.Context, campaignID string) (map[string]int64, error) {
	query := `
		SELECT status, COUNT(*)
		FROM campaign_calls
		WHERE campaign_id = $1
		GROUP BY status`

	return r.countGrouped(ctx, query, campaignID)
}

// CountByOutcome aggregates call counts per outcome for a campaign
func (r *callRepository) CountByOutcome(ctx context.Context, campaignID string) (map[string]int64, error) {
	query := `
		SELECT outcome, COUNT(*)
		FROM campaign_calls
		WHERE campaign_id = $1 AND outcome IS NOT NULL
		GROUP BY outcome`

	return r.countGrouped(ctx, query, campaignID)
}

func (r *callRepository) countGrouped(ctx context.Context, query, campaignID string) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate campaign calls: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("failed to scan call aggregate: %w", err)
		}
		counts[key] = n
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating call aggregates: %w", err)
	}

	return counts, nil
}

func (r *callRepository) execExpectingRow(ctx context.Context, id, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update campaign call: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("campaign call with ID %s not found", id))
	}

	return nil
}
