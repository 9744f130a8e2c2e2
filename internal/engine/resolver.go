package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/voicereach/voicereach-backend/internal/models"
	"github.com/voicereach/voicereach-backend/internal/phone"
	"github.com/voicereach/voicereach-backend/internal/repository"
)

// Resolver loads a campaign's contacts from its configured source and
// normalizes them into dialable form.
type Resolver struct {
	contacts      repository.ContactRepository
	defaultRegion string
	logger        *slog.Logger
}

// NewResolver creates a contact resolver
func NewResolver(contacts repository.ContactRepository, defaultRegion string, logger *slog.Logger) *Resolver {
	return &Resolver{contacts: contacts, defaultRegion: defaultRegion, logger: logger}
}

// ContactSeq is a finite, one-shot sequence of normalized contacts.
// Normalization and filtering happen lazily in Next; re-resolve to restart.
type ContactSeq struct {
	rows   []*models.ContactRow
	region string
	pos    int
}

// Next yields the next dialable contact. Rows flagged do-not-call and rows
// whose phone number is too short after normalization are skipped, never
// surfaced as errors.
func (s *ContactSeq) Next() (*models.Contact, bool) {
	for s.pos < len(s.rows) {
		row := s.rows[s.pos]
		s.pos++

		if row.DoNotCall {
			continue
		}

		number := phone.Normalize(phone.CoerceCell(row.Phone), s.region)
		if !phone.Dialable(number) {
			continue
		}

		return &models.Contact{
			ID:    row.ID,
			Phone: number,
			Name:  row.DisplayName(),
			Email: row.Email,
		}, true
	}
	return nil, false
}

// Resolve loads the campaign's contacts. A missing source reference or an
// empty lookup yields an empty sequence: the campaign has nothing to do,
// which is not an error.
func (r *Resolver) Resolve(ctx context.Context, c *models.Campaign) (*ContactSeq, error) {
	region := c.DialingRegion
	if region == "" {
		region = r.defaultRegion
	}

	var rows []*models.ContactRow
	var err error

	switch c.ContactSource {
	case models.ContactSourceList:
		if c.ContactListID == nil || *c.ContactListID == "" {
			return &ContactSeq{region: region}, nil
		}
		rows, err = r.contacts.ListByContactList(ctx, *c.ContactListID)
	case models.ContactSourceCSV:
		if c.ContactFileID == nil || *c.ContactFileID == "" {
			return &ContactSeq{region: region}, nil
		}
		rows, err = r.contacts.ListByContactFile(ctx, *c.ContactFileID)
	default:
		r.logger.Warn("campaign has unknown contact source",
			slog.String("campaign_id", c.ID),
			slog.String("contact_source", c.ContactSource),
		)
		return &ContactSeq{region: region}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to resolve contacts for campaign %s: %w", c.ID, err)
	}

	return &ContactSeq{rows: rows, region: region}, nil
}
