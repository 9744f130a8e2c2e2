package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/voicereach/voicereach-backend/internal/models"
)

// ContactRepository defines the interface for contact data access across
// both sources: static contact lists and uploaded CSV files.
type ContactRepository interface {
	ListByContactList(ctx context.Context, listID string) ([]*models.ContactRow, error)

	// ListByContactFile returns uploaded rows for a file, excluding rows
	// flagged do-not-call.
	ListByContactFile(ctx context.Context, fileID string) ([]*models.ContactRow, error)

	CreateFile(ctx context.Context, file *models.ContactFile) error
	CreateFileRows(ctx context.Context, fileID string, rows []*models.ContactRow) error
}

// contactRepository implements ContactRepository using PostgreSQL
type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

// ListByContactList retrieves all contacts belonging to a contact list
func (r *contactRepository) ListByContactList(ctx context.Context, listID string) ([]*models.ContactRow, error) {
	query := `
		SELECT id, phone, COALESCE(name, ''), COALESCE(first_name, ''),
		       COALESCE(last_name, ''), COALESCE(email, '')
		FROM contacts
		WHERE contact_list_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*models.ContactRow{}
	for rows.Next() {
		row := &models.ContactRow{}
		var id string
		err := rows.Scan(&id, &row.Phone, &row.Name, &row.FirstName, &row.LastName, &row.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		row.ID = &id
		contacts = append(contacts, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}

// ListByContactFile retrieves dialable rows for an uploaded file
func (r *contactRepository) ListByContactFile(ctx context.Context, fileID string) ([]*models.ContactRow, error) {
	query := `
		SELECT phone, COALESCE(name, ''), COALESCE(first_name, ''),
		       COALESCE(last_name, ''), COALESCE(email, ''), do_not_call
		FROM contact_file_rows
		WHERE contact_file_id = $1 AND do_not_call = FALSE
		ORDER BY row_number ASC`

	rows, err := r.db.QueryContext(ctx, query, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact file rows: %w", err)
	}
	defer rows.Close()

	contacts := []*models.ContactRow{}
	for rows.Next() {
		row := &models.ContactRow{}
		err := rows.Scan(&row.Phone, &row.Name, &row.FirstName, &row.LastName, &row.Email, &row.DoNotCall)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact file row: %w", err)
		}
		contacts = append(contacts, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact file rows: %w", err)
	}

	return contacts, nil
}

// CreateFile registers an uploaded contact file
func (r *contactRepository) CreateFile(ctx context.Context, file *models.ContactFile) error {
	if file.ID == "" {
		file.ID = uuid.New().String()
	}
	query := `
		INSERT INTO contact_files (id, filename, row_count)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, file.ID, file.Filename, file.RowCount).Scan(&file.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact file: %w", err)
	}

	return nil
}

// CreateFileRows inserts uploaded rows in a single transaction
func (r *contactRepository) CreateFileRows(ctx context.Context, fileID string, contactRows []*models.ContactRow) error {
	if len(contactRows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Rollback is safe to call even after Commit
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO contact_file_rows (contact_file_id, row_number, phone, name, first_name, last_name, email, do_not_call)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, row := range contactRows {
		_, err := stmt.ExecContext(ctx, fileID, i+1, row.Phone, row.Name, row.FirstName, row.LastName, row.Email, row.DoNotCall)
		if err != nil {
			return fmt.Errorf("failed to insert contact file row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
