package telephony

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client is the HTTP implementation of Provider against the voice server's
// REST API, authenticated with short-lived signed tokens.
type Client struct {
	baseURL string
	minter  *tokenMinter
	http    *http.Client
	logger  *slog.Logger
}

// ClientConfig holds voice server connection configuration
type ClientConfig struct {
	ServerURL string
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

// NewClient creates a new voice provider client
func NewClient(cfg ClientConfig, logger *slog.Logger) (*Client, error) {
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("telephony: server URL is required")
	}

	minter, err := newTokenMinter(cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.ServerURL, "/"),
		minter:  minter,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// Name identifies the provider
func (c *Client) Name() string { return "voice-server" }

// HealthCheck verifies the provider API is reachable
func (c *Client) HealthCheck(ctx context.Context) error {
	var out json.RawMessage
	return c.post(ctx, "/rooms/list", "", map[string]any{}, &out)
}

// EnsureRoom creates the room, treating "already exists" as success
func (c *Client) EnsureRoom(ctx context.Context, name string, metadata string) error {
	body := map[string]any{
		"name":     name,
		"metadata": metadata,
		// Provider reclaims abandoned rooms; dial setup is well under this.
		"empty_timeout": 300,
	}

	var out json.RawMessage
	err := c.post(ctx, "/rooms/create", "", body, &out)
	if err == nil {
		return nil
	}

	var apiErr *apiError
	if errors.As(err, &apiErr) && apiErr.alreadyExists() {
		c.logger.Debug("room already exists", slog.String("room", name))
		return nil
	}
	return fmt.Errorf("ensure room %s: %w", name, err)
}

// DialSIPParticipant dials the destination into the room over the trunk
func (c *Client) DialSIPParticipant(ctx context.Context, req DialRequest) (string, error) {
	body := map[string]any{
		"sip_trunk_id":         req.TrunkID,
		"sip_call_to":          req.To,
		"sip_number":           req.From,
		"room_name":            req.RoomName,
		"participant_identity": req.ParticipantIdentity,
	}

	var out struct {
		SIPCallID string `json:"sip_call_id"`
	}
	if err := c.post(ctx, "/sip/participants", req.RoomName, body, &out); err != nil {
		return "", fmt.Errorf("dial sip participant into %s: %w", req.RoomName, err)
	}
	if out.SIPCallID == "" {
		return "", fmt.Errorf("dial sip participant into %s: provider returned no call id", req.RoomName)
	}
	return out.SIPCallID, nil
}

// DispatchAgent requests a voice agent join the room
func (c *Client) DispatchAgent(ctx context.Context, req DispatchRequest) (string, error) {
	body := map[string]any{
		"room":       req.RoomName,
		"agent_name": req.AgentName,
		"metadata":   req.Metadata,
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/agents/dispatch", req.RoomName, body, &out); err != nil {
		return "", fmt.Errorf("dispatch agent into %s: %w", req.RoomName, err)
	}
	return out.ID, nil
}

// apiError carries the provider's HTTP failure detail.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.Status, e.Body)
}

func (e *apiError) alreadyExists() bool {
	return e.Status == http.StatusConflict ||
		strings.Contains(strings.ToLower(e.Body), "already exists")
}

// post performs an authenticated JSON POST and decodes the response into out.
func (c *Client) post(ctx context.Context, path, room string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	token, err := c.minter.mint(time.Now(), room)
	if err != nil {
		return fmt.Errorf("mint token: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apiError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response from %s: %w", path, err)
		}
	}
	return nil
}
