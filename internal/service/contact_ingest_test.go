package service

import (
	"context"
	"strings"
	"testing"
)

func TestIngestContactFile(t *testing.T) {
	svc, _, _, contactRepo := testService()

	csvData := strings.Join([]string{
		"Phone,First_Name,Last_Name,Email,do_not_call",
		"07911123456,Alice,Smith,alice@example.com,no",
		"447700900123.0,Bob,Builder,,yes",
		",Carol,NoPhone,,no",
	}, "\n")

	result, err := svc.IngestContactFile(context.Background(), "leads.csv", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("IngestContactFile returned error: %v", err)
	}

	if result.RowsTotal != 3 {
		t.Errorf("expected 3 total rows, got %d", result.RowsTotal)
	}
	if result.RowsAccepted != 2 {
		t.Errorf("expected 2 accepted rows, got %d", result.RowsAccepted)
	}
	if result.RowsSkipped != 1 {
		t.Errorf("expected 1 skipped row, got %d", result.RowsSkipped)
	}

	rows := contactRepo.rows[result.FileID]
	if len(rows) != 2 {
		t.Fatalf("expected 2 stored rows, got %d", len(rows))
	}
	if rows[0].Phone != "07911123456" {
		t.Errorf("rows are stored raw; got %s", rows[0].Phone)
	}
	if rows[0].FirstName != "Alice" || rows[0].LastName != "Smith" {
		t.Errorf("name fields not mapped: %+v", rows[0])
	}
	if rows[1].Phone != "447700900123" {
		t.Errorf("float-coerced cell not cleaned, got %s", rows[1].Phone)
	}
	if !rows[1].DoNotCall {
		t.Error("do_not_call flag not parsed")
	}
}

func TestIngestContactFile_MissingPhoneColumn(t *testing.T) {
	svc, _, _, _ := testService()

	csvData := "name,email\nAlice,alice@example.com\n"
	if _, err := svc.IngestContactFile(context.Background(), "bad.csv", strings.NewReader(csvData)); err == nil {
		t.Error("expected error for missing phone column")
	}
}

func TestIngestContactFile_Empty(t *testing.T) {
	svc, _, _, _ := testService()

	if _, err := svc.IngestContactFile(context.Background(), "empty.csv", strings.NewReader("")); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestIngestContactFile_NoUsableRows(t *testing.T) {
	svc, _, _, _ := testService()

	csvData := "phone,name\n,Alice\n,Bob\n"
	if _, err := svc.IngestContactFile(context.Background(), "blank.csv", strings.NewReader(csvData)); err == nil {
		t.Error("expected error when no row has a phone number")
	}
}
