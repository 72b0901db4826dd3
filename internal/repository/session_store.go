package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

const (
	sessionUserKeyPrefix = "session:user:"
	sessionCSRFKeyPrefix = "session:csrf:"
)

// SessionStore maps opaque cookie-carried session keys to user IDs in
// redis, with auxiliary per-session storage for the CSRF token.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

// Bind associates the session key with the user
func (s *SessionStore) Bind(ctx context.Context, sessionID string, userID uuid.UUID) error {
	return s.rdb.Set(ctx, sessionUserKeyPrefix+sessionID, userID.String(), s.ttl).Err()
}

// Unbind removes the session binding and any auxiliary keys
func (s *SessionStore) Unbind(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, sessionUserKeyPrefix+sessionID, sessionCSRFKeyPrefix+sessionID).Err()
}

// UserID resolves the session key to the bound user ID
func (s *SessionStore) UserID(ctx context.Context, sessionID string) (uuid.UUID, error) {
	val, err := s.rdb.Get(ctx, sessionUserKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrSessionNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrSessionNotFound
	}
	return id, nil
}

// SetCSRF stores the session's current form token
func (s *SessionStore) SetCSRF(ctx context.Context, sessionID, token string) error {
	return s.rdb.Set(ctx, sessionCSRFKeyPrefix+sessionID, token, s.ttl).Err()
}

// CSRF retrieves the session's current form token
func (s *SessionStore) CSRF(ctx context.Context, sessionID string) (string, error) {
	val, err := s.rdb.Get(ctx, sessionCSRFKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// ClearCSRF removes the session's form token
func (s *SessionStore) ClearCSRF(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, sessionCSRFKeyPrefix+sessionID).Err()
}
