package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCommands is an in-memory Commands implementation.
type fakeCommands struct {
	values map[string]string
	err    error
}

func newFakeCommands() *fakeCommands {
	return &fakeCommands{values: make(map[string]string)}
}

func (f *fakeCommands) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.values[key] = fmt.Sprintf("%v", value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCommands) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeCommands) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeCommands) Expire(ctx context.Context, key string, _ time.Duration) *redis.BoolCmd {
	_, ok := f.values[key]
	return redis.NewBoolResult(ok, nil)
}

func TestCreateAndResolve(t *testing.T) {
	store := NewRedisStore(newFakeCommands())
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "sess-1", 42, time.Hour))

	userID, err := store.UserID(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestUserID_MissingSession(t *testing.T) {
	store := NewRedisStore(newFakeCommands())

	_, err := store.UserID(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExtend(t *testing.T) {
	store := NewRedisStore(newFakeCommands())
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "sess-1", 42, time.Hour))
	assert.NoError(t, store.Extend(ctx, "sess-1", 2*time.Hour))
	assert.ErrorIs(t, store.Extend(ctx, "gone", time.Hour), ErrSessionNotFound)
}

func TestDelete_RevokesSession(t *testing.T) {
	store := NewRedisStore(newFakeCommands())
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "sess-1", 42, time.Hour))
	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, err := store.UserID(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestUserID_BackendError(t *testing.T) {
	fake := newFakeCommands()
	fake.err = errors.New("connection reset")
	store := NewRedisStore(fake)

	_, err := store.UserID(context.Background(), "sess-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
}
