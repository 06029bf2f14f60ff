package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRecord describes a live bearer-token session kept in Redis.
type SessionRecord struct {
	UserID   int64     `json:"user_id"`
	IssuedAt time.Time `json:"issued_at"`
	IP       string    `json:"ip,omitempty"`
	UA       string    `json:"ua,omitempty"`
}

// SessionRegistry tracks which issued tokens are still live. A token is
// accepted by the API only while its ID remains registered; revoking the ID
// invalidates the token before its signature expires.
type SessionRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRegistry constructs a SessionRegistry.
func NewSessionRegistry(client *redis.Client, ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{client: client, ttl: ttl}
}

// Put registers a session under the given token ID with the configured TTL.
func (sr *SessionRegistry) Put(ctx context.Context, id string, rec SessionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return sr.client.Set(ctx, sr.redisKey(id), data, sr.ttl).Err()
}

// Get returns the session for a token ID, or ErrSessionExpired when the
// registry holds no entry for it.
func (sr *SessionRegistry) Get(ctx context.Context, id string) (*SessionRecord, error) {
	payload, err := sr.client.Get(ctx, sr.redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	var rec SessionRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Revoke removes a session. Revoking an unknown ID is not an error.
func (sr *SessionRegistry) Revoke(ctx context.Context, id string) error {
	if err := sr.client.Del(ctx, sr.redisKey(id)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// TTL exposes the configured session lifetime.
func (sr *SessionRegistry) TTL() time.Duration {
	return sr.ttl
}

func (sr *SessionRegistry) redisKey(id string) string {
	return "session:" + id
}
