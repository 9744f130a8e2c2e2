package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/voicereach/voicereach-backend/internal/models"
)

// CampaignRepository defines the interface for campaign data access
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
	List(ctx context.Context, filter models.CampaignFilter) ([]*models.Campaign, int64, error)

	// FindDue returns running campaigns whose next_call_at has passed,
	// ordered by next_call_at ascending.
	FindDue(ctx context.Context, now time.Time) ([]*models.Campaign, error)

	// MarkStarted transitions to running, resets the daily counter, clears
	// the paused reason and schedules an immediate poll.
	MarkStarted(ctx context.Context, id string, now time.Time) error
	MarkResumed(ctx context.Context, id string) error
	MarkPaused(ctx context.Context, id string, reason string) error
	MarkCompleted(ctx context.Context, id string) error

	// RecordDial atomically increments the dial counters and stamps
	// last_execution_at in a single UPDATE, so concurrent processing can
	// never double-count a read-modify-write.
	RecordDial(ctx context.Context, id string, at time.Time) error
	ResetDaily(ctx context.Context, id string) error
	UpdateSchedule(ctx context.Context, id string, nextCallAt time.Time) error
}

const campaignColumns = `id, name, execution_status, daily_cap, current_daily_calls,
		calling_days, start_hour, end_hour, contact_source, contact_list_id,
		contact_file_id, assistant_id, prompt, dialing_region, dials,
		total_calls_made, total_calls_answered, paused_reason,
		last_execution_at, next_call_at, created_at, updated_at`

// campaignRepository implements CampaignRepository using PostgreSQL
type campaignRepository struct {
	db *sql.DB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *sql.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

// Create inserts a new campaign
func (r *campaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	if campaign.ID == "" {
		campaign.ID = uuid.New().String()
	}
	query := `
		INSERT INTO campaigns (
			id, name, execution_status, daily_cap, calling_days, start_hour,
			end_hour, contact_source, contact_list_id, contact_file_id,
			assistant_id, prompt, dialing_region
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		campaign.ID,
		campaign.Name,
		campaign.ExecutionStatus,
		campaign.DailyCap,
		pq.Array(campaign.CallingDays),
		campaign.StartHour,
		campaign.EndHour,
		campaign.ContactSource,
		campaign.ContactListID,
		campaign.ContactFileID,
		campaign.AssistantID,
		campaign.Prompt,
		campaign.DialingRegion,
	).Scan(&campaign.CreatedAt, &campaign.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}

	return nil
}

func scanCampaign(row interface {
	Scan(dest ...interface{}) error
}) (*models.Campaign, error) {
	campaign := &models.Campaign{}
	var days pq.StringArray
	err := row.Scan(
		&campaign.ID,
		&campaign.Name,
		&campaign.ExecutionStatus,
		&campaign.DailyCap,
		&campaign.CurrentDaily,
		&days,
		&campaign.StartHour,
		&campaign.EndHour,
		&campaign.ContactSource,
		&campaign.ContactListID,
		&campaign.ContactFileID,
		&campaign.AssistantID,
		&campaign.Prompt,
		&campaign.DialingRegion,
		&campaign.Dials,
		&campaign.TotalCallsMade,
		&campaign.TotalCallsAnswered,
		&campaign.PausedReason,
		&campaign.LastExecutionAt,
		&campaign.NextCallAt,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	campaign.CallingDays = []string(days)
	return campaign, nil
}

// GetByID retrieves a campaign by ID
func (r *campaignRepository) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM campaigns WHERE id = $1`, campaignColumns)

	campaign, err := scanCampaign(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("campaign with ID %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	return campaign, nil
}

// List retrieves campaigns with pagination and filtering
func (r *campaignRepository) List(ctx context.Context, filter models.CampaignFilter) ([]*models.Campaign, int64, error) {
	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)

	query := fmt.Sprintf(`SELECT %s FROM campaigns WHERE 1=1`, campaignColumns)
	countQuery := `SELECT COUNT(*) FROM campaigns WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.ExecutionStatus != "" {
		query += fmt.Sprintf(" AND execution_status = $%d", argPos)
		countQuery += fmt.Sprintf(" AND execution_status = $%d", argPos)
		args = append(args, filter.ExecutionStatus)
		argPos++
	}

	var totalCount int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count campaigns: %w", err)
	}

	offset := models.CalculateOffset(filter.Page, filter.PageSize)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []*models.Campaign{}
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating campaigns: %w", err)
	}

	return campaigns, totalCount, nil
}

// FindDue retrieves running campaigns that are due for a poll
func (r *campaignRepository) FindDue(ctx context.Context, now time.Time) ([]*models.Campaign, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM campaigns
		WHERE execution_status = $1 AND next_call_at <= $2
		ORDER BY next_call_at ASC`, campaignColumns)

	rows, err := r.db.QueryContext(ctx, query, models.CampaignStatusRunning, now)
	if err != nil {
		return nil, fmt.Errorf("failed to find due campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []*models.Campaign{}
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due campaign: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating due campaigns: %w", err)
	}

	return campaigns, nil
}

// MarkStarted transitions a campaign to running and resets the daily counter
func (r *campaignRepository) MarkStarted(ctx context.Context, id string, now time.Time) error {
	query := `
		UPDATE campaigns
		SET execution_status = $1, current_daily_calls = 0, paused_reason = NULL,
		    next_call_at = $2, updated_at = NOW()
		WHERE id = $3`

	return r.execExpectingRow(ctx, id, query, models.CampaignStatusRunning, now, id)
}

// MarkResumed transitions a paused campaign back to running
func (r *campaignRepository) MarkResumed(ctx context.Context, id string) error {
	query := `
		UPDATE campaigns
		SET execution_status = $1, paused_reason = NULL, next_call_at = NOW(), updated_at = NOW()
		WHERE id = $2`

	return r.execExpectingRow(ctx, id, query, models.CampaignStatusRunning, id)
}

// MarkPaused transitions a campaign to paused with a reason
func (r *campaignRepository) MarkPaused(ctx context.Context, id string, reason string) error {
	query := `
		UPDATE campaigns
		SET execution_status = $1, paused_reason = $2, updated_at = NOW()
		WHERE id = $3`

	return r.execExpectingRow(ctx, id, query, models.CampaignStatusPaused, reason, id)
}

// MarkCompleted transitions a campaign to completed
func (r *campaignRepository) MarkCompleted(ctx context.Context, id string) error {
	query := `
		UPDATE campaigns
		SET execution_status = $1, updated_at = NOW()
		WHERE id = $2`

	return r.execExpectingRow(ctx, id, query, models.CampaignStatusCompleted, id)
}

// RecordDial increments dial counters atomically at the storage layer
func (r *campaignRepository) RecordDial(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE campaigns
		SET dials = dials + 1,
		    current_daily_calls = current_daily_calls + 1,
		    total_calls_made = total_calls_made + 1,
		    last_execution_at = $1,
		    updated_at = NOW()
		WHERE id = $2`

	return r.execExpectingRow(ctx, id, query, at, id)
}

// ResetDaily zeroes the daily call counter
func (r *campaignRepository) ResetDaily(ctx context.Context, id string) error {
	query := `
		UPDATE campaigns
		SET current_daily_calls = 0, updated_at = NOW()
		WHERE id = $1`

	return r.execExpectingRow(ctx, id, query, id)
}

// UpdateSchedule advances the campaign's next poll time
func (r *campaignRepository) UpdateSchedule(ctx context.Context, id string, nextCallAt time.Time) error {
	query := `
		UPDATE campaigns
		SET next_call_at = $1, updated_at = NOW()
		WHERE id = $2`

	return r.execExpectingRow(ctx, id, query, nextCallAt, id)
}

// execExpectingRow runs an UPDATE that must touch exactly one campaign row
func (r *campaignRepository) execExpectingRow(ctx context.Context, id, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("campaign with ID %s not found", id))
	}

	return nil
}
