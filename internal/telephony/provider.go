// Package telephony adapts the external voice provider behind a
// provider-agnostic interface.
//
// Rules:
//   - No provider HTTP calls outside this package.
//   - Request/response types stay provider-agnostic; raw payloads do not
//     leak into business logic.
package telephony

import "context"

// Provider defines the voice-provider capabilities the engine consumes.
type Provider interface {
	Name() string
	HealthCheck(ctx context.Context) error

	// EnsureRoom creates the session room if it does not exist.
	// An already-existing room is success.
	EnsureRoom(ctx context.Context, name string, metadata string) error

	// DialSIPParticipant dials the destination into the room over the
	// given outbound trunk and returns the provider call identifier.
	DialSIPParticipant(ctx context.Context, req DialRequest) (string, error)

	// DispatchAgent requests that a voice agent join the room, carrying
	// opaque metadata for the agent runtime.
	DispatchAgent(ctx context.Context, req DispatchRequest) (string, error)
}

// DialRequest describes an outbound SIP dial into a room.
type DialRequest struct {
	RoomName string `json:"room_name"`
	TrunkID  string `json:"trunk_id"`
	// To is the destination number in E.164 form.
	To string `json:"to"`
	// From is the caller-ID number presented to the callee.
	From string `json:"from"`
	// ParticipantIdentity names the dialed party inside the room.
	ParticipantIdentity string `json:"participant_identity"`
}

// DispatchRequest describes an agent dispatch into a room.
type DispatchRequest struct {
	RoomName  string `json:"room_name"`
	AgentName string `json:"agent_name"`
	// Metadata is an opaque JSON payload handed to the agent.
	Metadata string `json:"metadata,omitempty"`
}
