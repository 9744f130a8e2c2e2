package models

import "time"

// Call queue item status constants (legacy scheduling mode).
const (
	QueueStatusQueued     = "queued"
	QueueStatusProcessing = "processing"
	QueueStatusCompleted  = "completed"
	QueueStatusFailed     = "failed"
	QueueStatusCancelled  = "cancelled"
)

// CallQueueItem is a pending unit of work from the legacy queue-driven
// scheduling mode. The engine itself iterates contacts directly and never
// consumes this table; it is kept so that stopping a campaign can cancel
// items queued by older deployments, and so status reporting stays accurate.
type CallQueueItem struct {
	ID             string     `json:"id"`
	CampaignID     string     `json:"campaign_id"`
	CampaignCallID *string    `json:"campaign_call_id,omitempty"`
	Status         string     `json:"status"`
	Priority       int        `json:"priority"`
	ScheduledFor   *time.Time `json:"scheduled_for,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
