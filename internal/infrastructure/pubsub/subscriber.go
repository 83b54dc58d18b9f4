package pubsub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/qmenu/selforder-api/internal/domain/entity"
	domainRepo "github.com/qmenu/selforder-api/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OrderSubscriber consumes order push events from the per-customer Redis
// Pub/Sub channels and feeds them to the order cache.
//
// One goroutine per subscription drains the channel in receipt order; Redis
// preserves publish order per connection, so events for a given order are
// applied in the order the upstream sent them. Redelivery is harmless because
// the cache applies events idempotently.
type OrderSubscriber struct {
	client        *redis.Client
	channelPrefix string
	cache         domainRepo.OrderCache
	logger        *zap.Logger

	mu     sync.Mutex
	active map[string]context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrderSubscriber creates a subscriber bound to the given cache.
func NewOrderSubscriber(client *redis.Client, channelPrefix string, cache domainRepo.OrderCache, logger *zap.Logger) *OrderSubscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderSubscriber{
		client:        client,
		channelPrefix: channelPrefix,
		cache:         cache,
		logger:        logger,
		active:        make(map[string]context.CancelFunc),
	}
}

// Subscribe starts consuming events for one customer. Subscribing twice for
// the same customer is a no-op. The subscription ends when ctx is cancelled,
// when Unsubscribe is called, or on Close.
func (s *OrderSubscriber) Subscribe(ctx context.Context, customerID string) {
	if customerID == "" {
		return
	}

	s.mu.Lock()
	if _, ok := s.active[customerID]; ok {
		s.mu.Unlock()
		return
	}
	subCtx, cancel := context.WithCancel(ctx)
	s.active[customerID] = cancel
	s.mu.Unlock()

	channel := s.channelPrefix + customerID
	pubsub := s.client.Subscribe(subCtx, channel)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer pubsub.Close()
		defer s.forget(customerID)

		s.logger.Info("subscribed to order channel", zap.String("channel", channel))

		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				s.logger.Info("order subscription closed", zap.String("channel", channel))
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				s.handleMessage(customerID, []byte(msg.Payload))
			}
		}
	}()
}

// Unsubscribe stops the subscription for one customer, e.g. on session end.
func (s *OrderSubscriber) Unsubscribe(customerID string) {
	s.mu.Lock()
	cancel, ok := s.active[customerID]
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

// Close stops all subscriptions and waits for their goroutines to exit.
func (s *OrderSubscriber) Close() {
	s.mu.Lock()
	for _, cancel := range s.active {
		cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// handleMessage decodes one push payload and applies it. A payload that does
// not decode, or decodes to garbage, is logged and dropped; this channel is
// best-effort and the kiosk can always refresh from the upstream.
func (s *OrderSubscriber) handleMessage(customerID string, payload []byte) {
	var push entity.OrderPush
	if err := json.Unmarshal(payload, &push); err != nil {
		s.logger.Warn("dropping undecodable order push",
			zap.String("customer_id", customerID), zap.Error(err))
		return
	}
	if push.Customer == "" {
		push.Customer = customerID
	}
	s.cache.Apply(&push)
}

func (s *OrderSubscriber) forget(customerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.active[customerID]; ok {
		cancel()
		delete(s.active, customerID)
	}
}
