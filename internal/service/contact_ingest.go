package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/voicereach/voicereach-backend/internal/models"
	"github.com/voicereach/voicereach-backend/internal/phone"
)

// csvHeaderAliases maps accepted header spellings to canonical column names.
var csvHeaderAliases = map[string]string{
	"phone":        "phone",
	"phone_number": "phone",
	"number":       "phone",
	"name":         "name",
	"full_name":    "name",
	"first_name":   "first_name",
	"firstname":    "first_name",
	"last_name":    "last_name",
	"lastname":     "last_name",
	"email":        "email",
	"do_not_call":  "do_not_call",
	"dnc":          "do_not_call",
}

// IngestContactFile parses an uploaded CSV and stores its rows for later
// resolution. Rows are stored raw; phone normalization happens when the
// engine resolves contacts, so a region change does not require re-upload.
// Rows without any phone value are skipped.
func (s *campaignService) IngestContactFile(ctx context.Context, filename string, data io.Reader) (*ContactFileResult, error) {
	reader := csv.NewReader(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, models.ErrInvalidInput("file is empty")
	}
	if err != nil {
		return nil, models.ErrInvalidInput(fmt.Sprintf("failed to read CSV header: %v", err))
	}

	columns := mapHeader(header)
	if _, ok := columns["phone"]; !ok {
		return nil, models.ErrInvalidInput("CSV must have a phone column")
	}

	var rows []*models.ContactRow
	total := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, models.ErrInvalidInput(fmt.Sprintf("failed to read CSV row %d: %v", total+2, err))
		}
		total++

		row := &models.ContactRow{
			Phone:     phone.CoerceCell(cell(record, columns, "phone")),
			Name:      cell(record, columns, "name"),
			FirstName: cell(record, columns, "first_name"),
			LastName:  cell(record, columns, "last_name"),
			Email:     cell(record, columns, "email"),
			DoNotCall: parseBoolCell(cell(record, columns, "do_not_call")),
		}
		if row.Phone == "" {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, models.ErrInvalidInput("no rows with a phone number found")
	}

	file := &models.ContactFile{Filename: filename, RowCount: len(rows)}
	if err := s.contactRepo.CreateFile(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to register contact file: %w", err)
	}
	if err := s.contactRepo.CreateFileRows(ctx, file.ID, rows); err != nil {
		return nil, fmt.Errorf("failed to store contact file rows: %w", err)
	}

	s.logger.Info("contact file ingested",
		slog.String("file_id", file.ID),
		slog.String("filename", filename),
		slog.Int("rows_accepted", len(rows)),
		slog.Int("rows_skipped", total-len(rows)),
	)

	return &ContactFileResult{
		FileID:       file.ID,
		Filename:     filename,
		RowsTotal:    total,
		RowsAccepted: len(rows),
		RowsSkipped:  total - len(rows),
	}, nil
}

// mapHeader resolves canonical column positions from the header row.
func mapHeader(header []string) map[string]int {
	columns := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := csvHeaderAliases[key]; ok {
			if _, taken := columns[canonical]; !taken {
				columns[canonical] = i
			}
		}
	}
	return columns
}

func cell(record []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseBoolCell(v string) bool {
	switch strings.ToLower(v) {
	case "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}
