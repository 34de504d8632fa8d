package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"joblens/internal/model"
)

const keyPrefix = "joblens:session:"

// RedisStore keeps collections in Redis as JSON with a sliding expiry, so
// several service replicas can share sessions.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore constructs a RedisStore. A ttl <= 0 stores keys without expiry.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string {
	return keyPrefix + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (model.JobCollection, error) {
	data, err := s.rdb.GetEx(ctx, sessionKey(id), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.JobCollection{}, ErrNotFound
	}
	if err != nil {
		return model.JobCollection{}, fmt.Errorf("redis GETEX %s: %w", id, err)
	}

	var coll model.JobCollection
	if err := json.Unmarshal(data, &coll); err != nil {
		return model.JobCollection{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return coll, nil
}

func (s *RedisStore) Put(ctx context.Context, id string, coll model.JobCollection) error {
	data, err := json.Marshal(coll)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	if err := s.rdb.Set(ctx, sessionKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis DEL %s: %w", id, err)
	}
	return nil
}
