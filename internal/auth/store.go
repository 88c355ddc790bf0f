package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore is the server-side registry of issued tokens. A token is
// honored only while its registry entry exists, which makes logout and
// revocation effective before expiry.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Save registers an issued token ID until its expiry.
func (s *SessionStore) Save(ctx context.Context, tokenID string, userID int64, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return errors.New("auth: token already expired")
	}
	return s.client.Set(ctx, s.key(tokenID), userID, ttl).Err()
}

// Exists reports whether the token ID is still registered.
func (s *SessionStore) Exists(ctx context.Context, tokenID string) (bool, error) {
	if err := s.client.Get(ctx, s.key(tokenID)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Revoke removes the registry entry for a token ID.
func (s *SessionStore) Revoke(ctx context.Context, tokenID string) error {
	if err := s.client.Del(ctx, s.key(tokenID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

func (s *SessionStore) key(tokenID string) string {
	return "token:" + tokenID
}
