package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRecordStore persists the gateway's session token between process
// restarts, keyed by installation id (one installation, one session, same
// model as a client-side credential cache).
// Key format: session:<installation_id>
type SessionRecordStore struct {
	client *redis.Client
}

func NewSessionRecordStore(client *redis.Client) *SessionRecordStore {
	return &SessionRecordStore{client: client}
}

// Save stores the session token with the given time-to-live.
func (s *SessionRecordStore) Save(ctx context.Context, installationID, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(installationID), token, ttl).Err(); err != nil {
		return fmt.Errorf("save session record: %w", err)
	}
	return nil
}

// Load returns the persisted token, or "" when no session is persisted.
func (s *SessionRecordStore) Load(ctx context.Context, installationID string) (string, error) {
	token, err := s.client.Get(ctx, s.key(installationID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load session record: %w", err)
	}
	return token, nil
}

// Clear removes the persisted session. Clearing an absent record is a no-op.
func (s *SessionRecordStore) Clear(ctx context.Context, installationID string) error {
	if err := s.client.Del(ctx, s.key(installationID)).Err(); err != nil {
		return fmt.Errorf("clear session record: %w", err)
	}
	return nil
}

func (s *SessionRecordStore) key(installationID string) string {
	return "session:" + installationID
}
