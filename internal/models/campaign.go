package models

import (
	"fmt"
	"strings"
	"time"
)

// Campaign execution status constants
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusRunning   = "running"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
)

// Contact source constants
const (
	ContactSourceList = "contact_list"
	ContactSourceCSV  = "csv_file"
)

// weekdayNames is the set of accepted calling_days values (lowercase).
var weekdayNames = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

// Campaign represents a configured outbound-calling job.
type Campaign struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ExecutionStatus string   `json:"execution_status"`
	DailyCap        int      `json:"daily_cap"`
	CurrentDaily    int      `json:"current_daily_calls"`
	CallingDays     []string `json:"calling_days"`
	StartHour       int      `json:"start_hour"`
	EndHour         int      `json:"end_hour"`
	ContactSource   string   `json:"contact_source"`
	ContactListID   *string  `json:"contact_list_id,omitempty"`
	ContactFileID   *string  `json:"contact_file_id,omitempty"`
	AssistantID     string   `json:"assistant_id"`
	Prompt          string   `json:"prompt,omitempty"`
	DialingRegion   string   `json:"dialing_region"`

	Dials              int `json:"dials"`
	TotalCallsMade     int `json:"total_calls_made"`
	TotalCallsAnswered int `json:"total_calls_answered"`

	PausedReason    *string    `json:"paused_reason,omitempty"`
	LastExecutionAt *time.Time `json:"last_execution_at,omitempty"`
	NextCallAt      *time.Time `json:"next_call_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CampaignFilter holds filtering options for listing campaigns
type CampaignFilter struct {
	ExecutionStatus string
	Page            int
	PageSize        int
}

// CampaignStats aggregates call and queue counts for the status endpoint.
type CampaignStats struct {
	CallsByStatus  map[string]int64 `json:"calls_by_status"`
	CallsByOutcome map[string]int64 `json:"calls_by_outcome"`
	QueueByStatus  map[string]int64 `json:"queue_by_status"`
}

// CampaignWithStats combines campaign details with call statistics
type CampaignWithStats struct {
	Campaign
	Stats CampaignStats `json:"stats"`
}

// Validate performs validation on campaign data
func (c *Campaign) Validate() error {
	if c.Name == "" {
		return ErrInvalidInput("name is required")
	}
	if c.AssistantID == "" {
		return ErrInvalidInput("assistant_id is required")
	}
	if c.DailyCap < 0 {
		return ErrInvalidInput("daily_cap must be >= 0")
	}
	if c.StartHour < 0 || c.StartHour > 23 {
		return ErrInvalidInput(fmt.Sprintf("start_hour must be 0-23, got %d", c.StartHour))
	}
	if c.EndHour < 0 || c.EndHour > 23 {
		return ErrInvalidInput(fmt.Sprintf("end_hour must be 0-23, got %d", c.EndHour))
	}
	for _, day := range c.CallingDays {
		if !weekdayNames[strings.ToLower(day)] {
			return ErrInvalidInput(fmt.Sprintf("invalid calling day: %s", day))
		}
	}
	switch c.ContactSource {
	case ContactSourceList:
		if c.ContactListID == nil || *c.ContactListID == "" {
			return ErrInvalidInput("contact_list_id is required for contact_list source")
		}
	case ContactSourceCSV:
		if c.ContactFileID == nil || *c.ContactFileID == "" {
			return ErrInvalidInput("contact_file_id is required for csv_file source")
		}
	default:
		return ErrInvalidInput(fmt.Sprintf("invalid contact_source: %s (must be 'contact_list' or 'csv_file')", c.ContactSource))
	}
	if c.ExecutionStatus != "" && !IsValidCampaignStatus(c.ExecutionStatus) {
		return ErrInvalidInput(fmt.Sprintf("invalid execution_status: %s", c.ExecutionStatus))
	}
	return nil
}

// IsValidCampaignStatus checks if the execution status is valid
func IsValidCampaignStatus(status string) bool {
	switch status {
	case CampaignStatusDraft, CampaignStatusRunning, CampaignStatusPaused, CampaignStatusCompleted:
		return true
	default:
		return false
	}
}

// CanStart reports whether the campaign may transition to running.
// Completed campaigns are terminal, and an already-running campaign must
// not be restarted (start resets daily counters).
func (c *Campaign) CanStart() bool {
	return c.ExecutionStatus == CampaignStatusDraft || c.ExecutionStatus == CampaignStatusPaused
}

// CanPause reports whether the campaign may transition to paused.
func (c *Campaign) CanPause() bool {
	return c.ExecutionStatus == CampaignStatusRunning
}

// CanResume reports whether the campaign may transition back to running.
func (c *Campaign) CanResume() bool {
	return c.ExecutionStatus == CampaignStatusPaused
}

// CanStop reports whether the campaign may be stopped (completed).
func (c *Campaign) CanStop() bool {
	return c.ExecutionStatus == CampaignStatusRunning || c.ExecutionStatus == CampaignStatusPaused
}
