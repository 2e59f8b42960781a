package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// Session is the server-side record a session cookie points at.
type Session struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}

// SessionStore defines storage operations for opaque session identifiers.
type SessionStore interface {
	Create(ctx context.Context, userID uint, email string, ttl time.Duration) (string, error)
	// Get returns (nil, nil) when the session is absent or expired.
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps sessions in Redis under a TTL. Unlike the cache
// wrapper it surfaces redis errors: a session that was never written must not
// look like a successful login.
type RedisSessionStore struct {
	client *redis.Client
}

var _ SessionStore = (*RedisSessionStore)(nil)

// NewRedisSessionStore creates a session store on the given client.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// Create stores a new session and returns its opaque identifier.
func (s *RedisSessionStore) Create(ctx context.Context, userID uint, email string, ttl time.Duration) (string, error) {
	sessionID := uuid.New().String()

	payload, err := json.Marshal(Session{UserID: userID, Email: email})
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, payload, ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sessionID, nil
}

// Get resolves a session identifier to its record.
func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// Delete removes a session. Removing an absent session is not an error.
func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}
