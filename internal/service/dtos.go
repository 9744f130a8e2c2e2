package service

import (
	"github.com/voicereach/voicereach-backend/internal/models"
)

// CreateCampaignRequest represents a request to create a campaign
type CreateCampaignRequest struct {
	Name          string   `json:"name"`
	DailyCap      int      `json:"daily_cap"`
	CallingDays   []string `json:"calling_days"`
	StartHour     int      `json:"start_hour"`
	EndHour       int      `json:"end_hour"`
	ContactSource string   `json:"contact_source"`
	ContactListID *string  `json:"contact_list_id,omitempty"`
	ContactFileID *string  `json:"contact_file_id,omitempty"`
	AssistantID   string   `json:"assistant_id"`
	Prompt        string   `json:"prompt,omitempty"`
	DialingRegion string   `json:"dialing_region,omitempty"`
}

// CampaignListResult represents paginated campaign list results
type CampaignListResult struct {
	Data       []*models.Campaign      `json:"data"`
	Pagination models.PaginationResult `json:"pagination"`
}

// LifecycleResult reports the outcome of a campaign state transition.
type LifecycleResult struct {
	CampaignID      string `json:"campaign_id"`
	ExecutionStatus string `json:"execution_status"`
}

// StopResult additionally reports how many legacy queue items were cancelled.
type StopResult struct {
	LifecycleResult
	CancelledQueueItems int64 `json:"cancelled_queue_items"`
}

// CallListResult represents a filtered, paged list of campaign calls.
type CallListResult struct {
	Data       []*models.CampaignCall `json:"data"`
	TotalCount int64                  `json:"total_count"`
	Limit      int                    `json:"limit"`
	Offset     int                    `json:"offset"`
}

// ContactFileResult reports the outcome of a contact file upload.
type ContactFileResult struct {
	FileID       string `json:"file_id"`
	Filename     string `json:"filename"`
	RowsTotal    int    `json:"rows_total"`
	RowsAccepted int    `json:"rows_accepted"`
	RowsSkipped  int    `json:"rows_skipped"`
}
