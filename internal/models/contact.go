package models

import (
	"strings"
	"time"
)

// Contact is a normalized person to call. List-sourced contacts carry an ID
// referencing the contacts table; file-sourced contacts have no contact row
// of their own (ID is nil on the resulting call record).
type Contact struct {
	ID        *string `json:"id,omitempty"`
	Phone     string  `json:"phone"`
	Name      string  `json:"name"`
	Email     string  `json:"email,omitempty"`
	DoNotCall bool    `json:"do_not_call,omitempty"`
}

// ContactRow is a raw record as stored, before phone normalization.
type ContactRow struct {
	ID        *string
	Phone     string
	Name      string
	FirstName string
	LastName  string
	Email     string
	DoNotCall bool
}

// DisplayName assembles a display name: an explicit name field wins,
// otherwise first and last names are joined.
func (r *ContactRow) DisplayName() string {
	if n := strings.TrimSpace(r.Name); n != "" {
		return n
	}
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}

// ContactFile is the registry entry for one CSV upload.
type ContactFile struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	RowCount  int       `json:"row_count"`
	CreatedAt time.Time `json:"created_at"`
}
