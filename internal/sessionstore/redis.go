// Package sessionstore records issued refresh sessions in Redis. A refresh
// token is only honored while its session record exists; expiry is enforced
// by the key TTL.
package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a session ID has no record, either
// because it expired or was revoked.
var ErrSessionNotFound = errors.New("refresh session not found")

const keyPrefix = "session:"

// Commands is the subset of redis commands the store uses, narrowed so tests
// can substitute a fake.
type Commands interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisStore persists refresh sessions keyed by session ID.
type RedisStore struct {
	client Commands
}

// NewRedisStore constructs a RedisStore over the given client.
func NewRedisStore(client Commands) *RedisStore {
	return &RedisStore{client: client}
}

// Create records a session for the user with the given lifetime.
func (s *RedisStore) Create(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+sessionID, userID, ttl).Err(); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// UserID resolves a session ID back to the user it was issued for.
func (s *RedisStore) UserID(ctx context.Context, sessionID string) (int64, error) {
	raw, err := s.client.Get(ctx, keyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, fmt.Errorf("load session: %w", err)
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode session record: %w", err)
	}
	return userID, nil
}

// Extend resets the session lifetime, keeping the same session ID across a
// token refresh.
func (s *RedisStore) Extend(ctx context.Context, sessionID string, ttl time.Duration) error {
	ok, err := s.client.Expire(ctx, keyPrefix+sessionID, ttl).Result()
	if err != nil {
		return fmt.Errorf("extend session: %w", err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

// Delete revokes a session.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// NewClient dials Redis, retrying on failure before giving up.
func NewClient(ctx context.Context, addr, password string, db, maxAttempts int) (*redis.Client, error) {
	var client *redis.Client
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client = redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
		_, err = client.Ping(pingCtx).Result()
		cancel()
		if err == nil {
			return client, nil
		}
		time.Sleep(time.Second)
	}
	return nil, fmt.Errorf("connect to redis after %d attempts: %w", maxAttempts, err)
}
