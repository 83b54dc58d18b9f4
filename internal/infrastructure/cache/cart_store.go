package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/qmenu/selforder-api/internal/domain/entity"
	domainRepo "github.com/qmenu/selforder-api/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cartKeyPrefix = "cart:"

// RedisCartStore persists draft carts in Redis so a kiosk restart does not
// lose the customer's in-progress order.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCartStore creates a Redis-backed cart store.
func NewRedisCartStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCartStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCartStore{client: client, ttl: ttl, logger: logger}
}

// Load returns the persisted cart for the session, or nil on miss. Storage
// or decode failures are logged and reported as a miss: the caller falls back
// to an empty cart instead of failing the request.
func (s *RedisCartStore) Load(ctx context.Context, sessionID string) (*entity.Cart, error) {
	data, err := s.client.Get(ctx, cartKeyPrefix+sessionID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("cart load failed, treating as miss",
				zap.String("session_id", sessionID), zap.Error(err))
		}
		return nil, nil
	}

	var cart entity.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		s.logger.Warn("persisted cart is corrupt, treating as miss",
			zap.String("session_id", sessionID), zap.Error(err))
		return nil, nil
	}
	return &cart, nil
}

// Save writes the cart with the configured TTL. Failures are logged, never
// returned as user-facing errors.
func (s *RedisCartStore) Save(ctx context.Context, sessionID string, cart *entity.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		s.logger.Warn("cart marshal failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil
	}
	if err := s.client.Set(ctx, cartKeyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		s.logger.Warn("cart save failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	return nil
}

// Remove deletes the persisted cart for the session.
func (s *RedisCartStore) Remove(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKeyPrefix+sessionID).Err(); err != nil {
		s.logger.Warn("cart remove failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	return nil
}

var _ domainRepo.CartStore = (*RedisCartStore)(nil)
