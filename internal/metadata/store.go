// Package metadata implements the room-metadata side channel: call context
// published by the dispatcher under the room name, for retrieval by
// telephony-side webhooks running in other processes.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "callmeta:"

// CallMetadata is the cross-process handoff payload keyed by room name.
type CallMetadata struct {
	AssistantID  string `json:"assistant_id"`
	CampaignID   string `json:"campaign_id"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactPhone string `json:"contact_phone"`
}

// Store publishes and retrieves call metadata.
type Store interface {
	// Publish is fire-and-forget from the caller's point of view: the
	// dispatcher logs and ignores its errors.
	Publish(ctx context.Context, roomName string, meta CallMetadata) error
	Get(ctx context.Context, roomName string) (*CallMetadata, error)
	Health(ctx context.Context) error
	Close() error
}

// redisStore implements Store using Redis with a TTL per entry.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Config holds Redis metadata store configuration
type Config struct {
	URL string
	TTL time.Duration
}

// NewRedisStore creates a metadata store backed by Redis
func NewRedisStore(cfg Config, logger *slog.Logger) (Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	logger.Info("connected to Redis metadata store",
		slog.String("addr", opts.Addr),
		slog.Duration("ttl", ttl),
	)

	return &redisStore{client: client, ttl: ttl, logger: logger}, nil
}

// NewRedisStoreWithClient wraps an existing client; used by tests.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration, logger *slog.Logger) Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisStore{client: client, ttl: ttl, logger: logger}
}

// Publish stores call metadata under the room name
func (s *redisStore) Publish(ctx context.Context, roomName string, meta CallMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal call metadata: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+roomName, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to publish call metadata: %w", err)
	}

	s.logger.Debug("call metadata published", slog.String("room", roomName))
	return nil
}

// Get retrieves call metadata by room name
func (s *redisStore) Get(ctx context.Context, roomName string) (*CallMetadata, error) {
	data, err := s.client.Get(ctx, keyPrefix+roomName).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("no metadata for room %s", roomName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get call metadata: %w", err)
	}

	var meta CallMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal call metadata: %w", err)
	}

	return &meta, nil
}

// Health checks if Redis is reachable
func (s *redisStore) Health(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis health check failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *redisStore) Close() error {
	return s.client.Close()
}
