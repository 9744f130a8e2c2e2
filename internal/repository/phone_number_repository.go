package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/voicereach/voicereach-backend/internal/models"
)

// PhoneNumberRepository resolves the outbound trunk and caller-ID number
// for an assistant.
type PhoneNumberRepository interface {
	GetByAssistantID(ctx context.Context, assistantID string) (*models.PhoneNumber, error)
}

// phoneNumberRepository implements PhoneNumberRepository using PostgreSQL
type phoneNumberRepository struct {
	db *sql.DB
}

// NewPhoneNumberRepository creates a new phone number repository
func NewPhoneNumberRepository(db *sql.DB) PhoneNumberRepository {
	return &phoneNumberRepository{db: db}
}

// GetByAssistantID retrieves the active trunk mapping for an assistant
func (r *phoneNumberRepository) GetByAssistantID(ctx context.Context, assistantID string) (*models.PhoneNumber, error) {
	query := `
		SELECT id, phone_number, assistant_id, trunk_id, active, created_at
		FROM phone_numbers
		WHERE assistant_id = $1 AND active = TRUE
		ORDER BY created_at ASC
		LIMIT 1`

	pn := &models.PhoneNumber{}
	err := r.db.QueryRowContext(ctx, query, assistantID).Scan(
		&pn.ID,
		&pn.PhoneNumber,
		&pn.AssistantID,
		&pn.TrunkID,
		&pn.Active,
		&pn.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("no phone number mapped to assistant %s", assistantID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get phone number: %w", err)
	}

	return pn, nil
}
