package models

import "time"

// PhoneNumber maps a provisioned caller-ID number to the assistant that
// answers with it and the provider-side outbound trunk used to dial.
// The dispatcher resolves the trunk for a campaign through this mapping.
type PhoneNumber struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	AssistantID string    `json:"assistant_id"`
	TrunkID     string    `json:"trunk_id"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}
