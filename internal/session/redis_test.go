package session_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"joblens/internal/db"
	"joblens/internal/session"
)

func redisStore(t *testing.T) *session.RedisStore {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	rdb, err := db.NewRedisClient(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return session.NewRedisStore(rdb, time.Minute)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := redisStore(t)
	id := session.NewID()
	t.Cleanup(func() { _ = s.Delete(ctx, id) })

	_, err := s.Get(ctx, id)
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, s.Put(ctx, id, sample("python")))
	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "python", got.Keyword)
	require.Len(t, got.Records, 2)
	assert.Equal(t, "python-1", *got.Records[0].Title)
	assert.Nil(t, got.Records[0].Company)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, session.ErrNotFound)
}
