//go:build integration
// +build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/unemployment-navigator/internal/session"
	"github.com/jonathan/unemployment-navigator/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T, ttl time.Duration) *RedisStore {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s, err := Dial(ctx, url, ttl)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to Redis: %v", err)
	}
	return s
}

func TestRedisStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	s := setupTestRedis(t, time.Minute)
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))
	id := uuid.NewString()
	defer func() { _ = s.Delete(ctx, id) }()

	got, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	st := session.New(id)
	st.AppendMessage("hello", types.SenderBot, "")
	require.NoError(t, s.Save(ctx, st.Snapshot()))

	got, err = s.Load(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Messages, 1)

	ttl, err := s.TTL(ctx, id)
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	require.NoError(t, s.Delete(ctx, id))
	got, err = s.Load(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}
