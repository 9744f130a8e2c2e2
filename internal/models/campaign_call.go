package models

import "time"

// Campaign call status constants
const (
	CallStatusPending   = "pending"
	CallStatusCalling   = "calling"
	CallStatusCompleted = "completed"
	CallStatusFailed    = "failed"
)

// CampaignCall represents one realized attempt to reach a contact.
//
// The engine creates the record immediately before dispatch with
// status=calling; a downstream webhook/analysis process marks it completed
// and sets the outcome, which is why outcome is free-form here.
type CampaignCall struct {
	ID          string     `json:"id"`
	CampaignID  string     `json:"campaign_id"`
	ContactID   *string    `json:"contact_id,omitempty"`
	PhoneNumber string     `json:"phone_number"`
	ContactName string     `json:"contact_name"`
	Status      string     `json:"status"`
	Outcome     *string    `json:"outcome,omitempty"`
	CallSID     *string    `json:"call_sid,omitempty"`
	RoomName    *string    `json:"room_name,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CampaignCallFilter holds filtering and paging options for listing calls.
// Limit defaults to 50 and is capped at 200.
type CampaignCallFilter struct {
	CampaignID string
	Status     string
	Outcome    string
	Limit      int
	Offset     int
	SortBy     string
	SortOrder  string
}

// IsValidCallStatus checks if the call status is valid
func IsValidCallStatus(status string) bool {
	switch status {
	case CallStatusPending, CallStatusCalling, CallStatusCompleted, CallStatusFailed:
		return true
	default:
		return false
	}
}

// callSortColumns whitelists sortable columns to keep ORDER BY injection-safe.
var callSortColumns = map[string]bool{
	"created_at":   true,
	"started_at":   true,
	"completed_at": true,
	"status":       true,
}

// Normalize applies defaults and clamps paging values.
func (f *CampaignCallFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		f.Limit = 200
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if !callSortColumns[f.SortBy] {
		f.SortBy = "created_at"
	}
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		f.SortOrder = "desc"
	}
}
