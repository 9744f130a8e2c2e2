package telephony

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(ClientConfig{
		ServerURL: srv.URL,
		APIKey:    "test-key",
		APISecret: "test-secret",
	}, testLogger())
	require.NoError(t, err)

	return client
}

func TestEnsureRoomCreates(t *testing.T) {
	var gotPath string
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"name":"room-1"}`))
	})

	err := client.EnsureRoom(context.Background(), "room-1", `{"campaign_id":"c1"}`)
	require.NoError(t, err)
	assert.Equal(t, "/rooms/create", gotPath)
	assert.True(t, strings.HasPrefix(gotAuth, "Bearer "), "expected bearer token, got %q", gotAuth)
}

func TestEnsureRoomAlreadyExists(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"room already exists"}`))
	})

	err := client.EnsureRoom(context.Background(), "room-1", "")
	assert.NoError(t, err, "conflict on create must be treated as success")
}

func TestEnsureRoomServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`boom`))
	})

	err := client.EnsureRoom(context.Background(), "room-1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestDialSIPParticipant(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"sip_call_id":"SCL_abc123"}`))
	})

	sid, err := client.DialSIPParticipant(context.Background(), DialRequest{
		RoomName:            "room-1",
		TrunkID:             "trunk-1",
		To:                  "+447911123456",
		From:                "+441onefive",
		ParticipantIdentity: "callee",
	})
	require.NoError(t, err)
	assert.Equal(t, "SCL_abc123", sid)
	assert.Equal(t, "trunk-1", gotBody["sip_trunk_id"])
	assert.Equal(t, "+447911123456", gotBody["sip_call_to"])
}

func TestDialSIPParticipantMissingCallID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := client.DialSIPParticipant(context.Background(), DialRequest{RoomName: "room-1"})
	assert.Error(t, err)
}

func TestDispatchAgent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "voice-agent", body["agent_name"])
		w.Write([]byte(`{"id":"disp-1"}`))
	})

	id, err := client.DispatchAgent(context.Background(), DispatchRequest{
		RoomName:  "room-1",
		AgentName: "voice-agent",
		Metadata:  `{"assistant_id":"a1"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "disp-1", id)
}

func TestMintedTokenClaims(t *testing.T) {
	minter, err := newTokenMinter("key-1", "secret-1")
	require.NoError(t, err)

	now := time.Now()
	signed, err := minter.mint(now, "room-1")
	require.NoError(t, err)

	var claims apiClaims
	parsed, err := jwt.ParseWithClaims(signed, &claims, func(token *jwt.Token) (any, error) {
		return []byte("secret-1"), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, "key-1", claims.Issuer)
	assert.Equal(t, "room-1", claims.Video.Room)
	assert.True(t, claims.Video.RoomJoin)
	assert.True(t, claims.ExpiresAt.After(now), "token must expire in the future")
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(ClientConfig{ServerURL: ""}, testLogger())
	assert.Error(t, err)

	_, err = NewClient(ClientConfig{ServerURL: "http://localhost", APIKey: "", APISecret: ""}, testLogger())
	assert.Error(t, err)
}
