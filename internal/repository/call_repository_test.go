package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/voicereach/voicereach-backend/internal/models"
)

func TestCallRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCallRepository(db)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO campaign_calls`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	call := &models.CampaignCall{
		CampaignID:  "camp-1",
		PhoneNumber: "+447911123456",
		ContactName: "Alice",
		Status:      models.CallStatusCalling,
		StartedAt:   &now,
	}

	if err := repo.Create(context.Background(), call); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if call.ID == "" {
		t.Error("expected Create to assign an ID")
	}
}

func TestCallRepository_List_FiltersAndSorts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCallRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM campaign_calls WHERE campaign_id = \$1 AND status = \$2`).
		WithArgs("camp-1", "failed").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM campaign_calls WHERE campaign_id = \$1 AND status = \$2 ORDER BY started_at asc LIMIT \$3 OFFSET \$4`).
		WithArgs("camp-1", "failed", 50, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "campaign_id", "contact_id", "phone_number", "contact_name", "status",
			"outcome", "call_sid", "room_name", "notes", "started_at", "completed_at", "created_at",
		}).AddRow(
			"call-1", "camp-1", nil, "+447911123456", "Alice", "failed",
			nil, nil, nil, "no outbound trunk configured", now, now, now,
		))

	calls, total, err := repo.List(context.Background(), models.CampaignCallFilter{
		CampaignID: "camp-1",
		Status:     "failed",
		SortBy:     "started_at",
		SortOrder:  "asc",
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 1 || len(calls) != 1 {
		t.Fatalf("expected one call, got total=%d len=%d", total, len(calls))
	}
	if calls[0].Notes == nil || *calls[0].Notes != "no outbound trunk configured" {
		t.Errorf("notes not scanned: %v", calls[0].Notes)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCallRepository_List_RejectsUnknownSortColumn(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCallRepository(db)

	// An unknown sortBy falls back to created_at rather than reaching SQL.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM campaign_calls WHERE campaign_id = \$1`).
		WithArgs("camp-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery(`ORDER BY created_at desc LIMIT \$2 OFFSET \$3`).
		WithArgs("camp-1", 50, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "campaign_id", "contact_id", "phone_number", "contact_name", "status",
			"outcome", "call_sid", "room_name", "notes", "started_at", "completed_at", "created_at",
		}))

	_, _, err := repo.List(context.Background(), models.CampaignCallFilter{
		CampaignID: "camp-1",
		SortBy:     "1; DROP TABLE campaign_calls",
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCallRepository_MarkFailed(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCallRepository(db)

	mock.ExpectExec(`UPDATE campaign_calls\s+SET status = \$1, notes = \$2, completed_at = NOW\(\)`).
		WithArgs(models.CallStatusFailed, "sip timeout", "call-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkFailed(context.Background(), "call-1", "sip timeout"); err != nil {
		t.Fatalf("MarkFailed returned error: %v", err)
	}
}

func TestCallRepository_CountByStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCallRepository(db)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\)\s+FROM campaign_calls\s+WHERE campaign_id = \$1\s+GROUP BY status`).
		WithArgs("camp-1").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("calling", 2).
			AddRow("failed", 1))

	counts, err := repo.CountByStatus(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("CountByStatus returned error: %v", err)
	}
	if counts["calling"] != 2 || counts["failed"] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}
