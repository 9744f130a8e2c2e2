package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voicereach/voicereach-backend/internal/metadata"
	"github.com/voicereach/voicereach-backend/internal/models"
	"github.com/voicereach/voicereach-backend/internal/phone"
	"github.com/voicereach/voicereach-backend/internal/repository"
	"github.com/voicereach/voicereach-backend/internal/telephony"
)

// Dispatcher places a single outbound call: it creates the call record,
// resolves the outbound trunk, sets up the provider-side room and requests
// the voice agent, recording identifiers and failures as it goes.
type Dispatcher struct {
	calls     repository.CallRepository
	campaigns repository.CampaignRepository
	numbers   repository.PhoneNumberRepository
	provider  telephony.Provider
	meta      metadata.Store
	agentName string
	logger    *slog.Logger
}

// NewDispatcher creates a call dispatcher
func NewDispatcher(
	calls repository.CallRepository,
	campaigns repository.CampaignRepository,
	numbers repository.PhoneNumberRepository,
	provider telephony.Provider,
	meta metadata.Store,
	agentName string,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		calls:     calls,
		campaigns: campaigns,
		numbers:   numbers,
		provider:  provider,
		meta:      meta,
		agentName: agentName,
		logger:    logger,
	}
}

// DispatchError reports a failed dispatch attempt. The failure is terminal
// for this contact in the current run; the scheduler logs it and moves on.
type DispatchError struct {
	CallID string
	Err    error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch of call %s failed: %v", e.CallID, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// agentMetadata is the opaque payload handed to the room and the agent
// runtime.
type agentMetadata struct {
	AssistantID  string `json:"assistant_id"`
	CampaignID   string `json:"campaign_id"`
	ContactPhone string `json:"contact_phone"`
	ContactName  string `json:"contact_name,omitempty"`
	Prompt       string `json:"prompt,omitempty"`
}

// Dispatch attempts one outbound call for the contact. The call record is
// created first with status=calling; any later failure marks it failed with
// the cause in notes and returns a DispatchError. There is no retry.
func (d *Dispatcher) Dispatch(ctx context.Context, campaign *models.Campaign, contact *models.Contact) (*models.CampaignCall, error) {
	now := time.Now()
	call := &models.CampaignCall{
		CampaignID:  campaign.ID,
		ContactID:   contact.ID,
		PhoneNumber: contact.Phone,
		ContactName: contact.Name,
		Status:      models.CallStatusCalling,
		StartedAt:   &now,
	}
	if err := d.calls.Create(ctx, call); err != nil {
		return nil, fmt.Errorf("failed to create call record: %w", err)
	}

	trunk, err := d.numbers.GetByAssistantID(ctx, campaign.AssistantID)
	if err != nil {
		// Only an absent mapping is a configuration problem; anything else
		// is an infrastructure failure and must not read like one.
		if errors.Is(err, models.ErrNotFound) {
			return call, d.fail(ctx, call, fmt.Errorf(
				"no outbound trunk configured for assistant %s: %w", campaign.AssistantID, err))
		}
		return call, d.fail(ctx, call, fmt.Errorf(
			"trunk lookup failed for assistant %s: %w", campaign.AssistantID, err))
	}

	dest := phone.ForDial(contact.Phone)
	room := roomName(dest, now)

	// Best-effort handoff for telephony-side webhooks. A publish failure
	// degrades webhook enrichment, not dialing.
	if err := d.meta.Publish(ctx, room, metadata.CallMetadata{
		AssistantID:  campaign.AssistantID,
		CampaignID:   campaign.ID,
		ContactName:  contact.Name,
		ContactPhone: dest,
	}); err != nil {
		d.logger.Warn("failed to publish call metadata",
			slog.String("room", room),
			slog.Any("error", err),
		)
	}

	payload, err := json.Marshal(agentMetadata{
		AssistantID:  campaign.AssistantID,
		CampaignID:   campaign.ID,
		ContactPhone: dest,
		ContactName:  contact.Name,
		Prompt:       campaign.Prompt,
	})
	if err != nil {
		return call, d.fail(ctx, call, fmt.Errorf("failed to marshal dispatch metadata: %w", err))
	}

	if err := d.provider.EnsureRoom(ctx, room, string(payload)); err != nil {
		return call, d.fail(ctx, call, err)
	}

	callSID, err := d.provider.DialSIPParticipant(ctx, telephony.DialRequest{
		RoomName:            room,
		TrunkID:             trunk.TrunkID,
		To:                  dest,
		From:                trunk.PhoneNumber,
		ParticipantIdentity: "callee-" + strings.TrimPrefix(dest, "+"),
	})
	if err != nil {
		return call, d.fail(ctx, call, err)
	}

	if _, err := d.provider.DispatchAgent(ctx, telephony.DispatchRequest{
		RoomName:  room,
		AgentName: d.agentName,
		Metadata:  string(payload),
	}); err != nil {
		return call, d.fail(ctx, call, err)
	}

	if err := d.calls.MarkDispatched(ctx, call.ID, callSID, room); err != nil {
		return call, d.fail(ctx, call, fmt.Errorf("failed to record dispatch result: %w", err))
	}

	// The call is already in flight; a counter miss must not fail the attempt.
	if err := d.campaigns.RecordDial(ctx, campaign.ID, time.Now()); err != nil {
		d.logger.Error("failed to record dial counters",
			slog.String("campaign_id", campaign.ID),
			slog.Any("error", err),
		)
	}

	call.CallSID = &callSID
	call.RoomName = &room

	d.logger.Info("call dispatched",
		slog.String("campaign_id", campaign.ID),
		slog.String("call_id", call.ID),
		slog.String("room", room),
		slog.String("call_sid", callSID),
	)
	return call, nil
}

// fail marks the call record failed with the cause and wraps the cause for
// the caller.
func (d *Dispatcher) fail(ctx context.Context, call *models.CampaignCall, cause error) error {
	if err := d.calls.MarkFailed(ctx, call.ID, cause.Error()); err != nil {
		d.logger.Error("failed to mark call as failed",
			slog.String("call_id", call.ID),
			slog.Any("error", err),
		)
	}
	call.Status = models.CallStatusFailed
	return &DispatchError{CallID: call.ID, Err: cause}
}

// roomName synthesizes a globally-unique room name from the destination
// number, a millisecond timestamp and a short random suffix, so concurrent
// campaigns dialing the same number never collide.
func roomName(dest string, now time.Time) string {
	digits := strings.TrimPrefix(dest, "+")
	return fmt.Sprintf("outbound-%s-%d-%s", digits, now.UnixMilli(), uuid.New().String()[:8])
}
