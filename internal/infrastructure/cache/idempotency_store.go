package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "idempotency:"

// CachedResponse is a replayable response stored under an idempotency key.
type CachedResponse struct {
	Code int    `json:"code"`
	Body string `json:"body"`
}

// RedisIdempotencyStore stores submission responses by idempotency key so a
// double-tapped submit button cannot create two orders.
type RedisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisIdempotencyStore creates a Redis-backed idempotency store.
func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisIdempotencyStore{client: client, ttl: ttl}
}

// Get returns the cached response for the key, or nil when unseen.
func (s *RedisIdempotencyStore) Get(ctx context.Context, sessionID, key string) (*CachedResponse, error) {
	data, err := s.client.Get(ctx, idempotencyKeyPrefix+sessionID+":"+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cached CachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

// Set stores the response under the key with the configured TTL.
func (s *RedisIdempotencyStore) Set(ctx context.Context, sessionID, key string, resp *CachedResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, idempotencyKeyPrefix+sessionID+":"+key, data, s.ttl).Err()
}
