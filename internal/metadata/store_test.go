package metadata

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	return NewRedisStoreWithClient(client, time.Hour, logger), mr
}

func TestPublishAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	meta := CallMetadata{
		AssistantID:  "asst-1",
		CampaignID:   "camp-1",
		ContactName:  "Jordan Smith",
		ContactPhone: "+447911123456",
	}

	if err := store.Publish(ctx, "outbound-447911123456-1000", meta); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	got, err := store.Get(ctx, "outbound-447911123456-1000")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	if got.AssistantID != meta.AssistantID || got.CampaignID != meta.CampaignID {
		t.Errorf("metadata roundtrip mismatch: got %+v, want %+v", got, meta)
	}
	if got.ContactPhone != meta.ContactPhone {
		t.Errorf("contact phone mismatch: got %s, want %s", got.ContactPhone, meta.ContactPhone)
	}
}

func TestGetMissingRoom(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Get(context.Background(), "no-such-room"); err == nil {
		t.Error("expected error for missing room metadata")
	}
}

func TestPublishSetsTTL(t *testing.T) {
	store, mr := newTestStore(t)

	err := store.Publish(context.Background(), "room-1", CallMetadata{ContactPhone: "+1"})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	ttl := mr.TTL(keyPrefix + "room-1")
	if ttl <= 0 {
		t.Errorf("expected positive TTL on metadata key, got %v", ttl)
	}
}
