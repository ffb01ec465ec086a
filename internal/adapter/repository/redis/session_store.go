package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iho/pocketledger/internal/domain"
)

// SessionStore implements usecase.SessionStore using Redis. Sessions are
// stored as JSON without expiry and survive bot restarts.
type SessionStore struct {
	client *redis.Client
	prefix string
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: "session:",
	}
}

// Get returns domain.ErrNoSession when the user has no session.
func (s *SessionStore) Get(ctx context.Context, userID string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.prefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", userID, err)
	}
	return &session, nil
}

// Put stores the session, replacing any previous one.
func (s *SessionStore) Put(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.UserID, err)
	}
	return s.client.Set(ctx, s.prefix+session.UserID, data, 0).Err()
}

// Delete removes the user's session.
func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, s.prefix+userID).Err()
}
