package cache

import (
	"sync"

	"github.com/qmenu/selforder-api/internal/domain/entity"
	"github.com/qmenu/selforder-api/internal/domain/enum"
	domainRepo "github.com/qmenu/selforder-api/internal/domain/repository"
	"go.uber.org/zap"
)

// OrderCache holds the per-customer projection of committed orders,
// maintained from push events. It is structurally separate from draft carts:
// a push event can never clobber an in-progress draft mutation.
//
// Apply is idempotent so a redelivered event leaves the cache unchanged;
// events are expected in receipt order (the subscriber feeds them from a
// single goroutine).
type OrderCache struct {
	mu sync.RWMutex
	// lists keeps insertion order per customer; byID is the single-order
	// cache shared across customers.
	lists    map[string][]entity.Order
	byID     map[string]*entity.Order
	watchers map[string][]*orderWatch
	logger   *zap.Logger
}

type orderWatch struct {
	orderID string
	fn      func(*entity.Order)
	done    bool
}

// NewOrderCache creates an empty order cache.
func NewOrderCache(logger *zap.Logger) *OrderCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderCache{
		lists:    make(map[string][]entity.Order),
		byID:     make(map[string]*entity.Order),
		watchers: make(map[string][]*orderWatch),
		logger:   logger,
	}
}

// List returns the cached orders for a customer. The second result reports
// whether the cache has been filled for that customer at all, so callers can
// distinguish "no orders" from "cold cache".
func (c *OrderCache) List(customerID string) ([]entity.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	orders, ok := c.lists[customerID]
	if !ok {
		return nil, false
	}
	out := make([]entity.Order, len(orders))
	copy(out, orders)
	return out, true
}

// Get returns the cached single-order entry by id.
func (c *OrderCache) Get(orderID string) (*entity.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	order, ok := c.byID[orderID]
	if !ok || order == nil {
		return nil, ok
	}
	clone := *order
	return &clone, true
}

// Fill seeds the list for a customer wholesale, e.g. after a cold-cache
// fetch from the upstream.
func (c *OrderCache) Fill(customerID string, orders []entity.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := make([]entity.Order, len(orders))
	copy(list, orders)
	c.lists[customerID] = list
	for i := range list {
		order := list[i]
		c.byID[order.ID] = &order
	}
}

// Append adds a just-created order to the customer's list, mirroring what a
// CREATED push event would do. Used right after a successful submission so
// the kiosk sees its own order without waiting for the push.
func (c *OrderCache) Append(customerID string, order *entity.Order) {
	if order == nil || order.ID == "" {
		return
	}
	c.Apply(&entity.OrderPush{
		Event:    enum.OrderEventCreated,
		Customer: customerID,
		Order:    order,
	})
}

// Apply merges one push event into the cache. Malformed payloads are logged
// and dropped; the cache is left untouched. Replaying the same event twice
// produces the same state as applying it once.
func (c *OrderCache) Apply(push *entity.OrderPush) {
	if push == nil || push.Order == nil || push.Order.ID == "" {
		c.logger.Warn("ignoring malformed order push event")
		return
	}
	if !push.Event.IsValid() {
		c.logger.Warn("ignoring order push with unknown event",
			zap.String("event", string(push.Event)), zap.String("order_id", push.Order.ID))
		return
	}

	c.mu.Lock()

	order := *push.Order
	list := c.lists[push.Customer]

	switch push.Event {
	case enum.OrderEventCreated, enum.OrderEventUpdated:
		// Upsert: replace in place when present, append when absent. An
		// UPDATED for an unseen id means the CREATED event was missed, not
		// that the order doesn't exist.
		found := false
		for i := range list {
			if list[i].ID == order.ID {
				list[i] = order
				found = true
				break
			}
		}
		if !found {
			list = append(list, order)
		}
		c.lists[push.Customer] = list
		c.byID[order.ID] = &order

	case enum.OrderEventDeleted:
		kept := list[:0]
		for _, existing := range list {
			if existing.ID != order.ID {
				kept = append(kept, existing)
			}
		}
		c.lists[push.Customer] = kept
		c.byID[order.ID] = nil
	}

	fired := c.collectWatchers(order.ID)
	c.mu.Unlock()

	// Watcher callbacks run outside the lock: they navigate screens and may
	// call back into the cache.
	for _, w := range fired {
		w.fn(&order)
	}
}

// Evict drops the customer's list and the single-order entries that belong
// to it. Sessions are short-lived and every one gets a fresh id, so state
// that is not evicted on session end or expiry accumulates forever.
func (c *OrderCache) Evict(customerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, order := range c.lists[customerID] {
		delete(c.byID, order.ID)
	}
	delete(c.lists, customerID)
}

// Watch registers a one-shot callback for the next applied event carrying
// the given order id. Used by the payment screen to learn that the order it
// just submitted has been decided.
func (c *OrderCache) Watch(orderID string, fn func(*entity.Order)) (cancel func()) {
	w := &orderWatch{orderID: orderID, fn: fn}

	c.mu.Lock()
	c.watchers[orderID] = append(c.watchers[orderID], w)
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		w.done = true
	}
}

// collectWatchers removes and returns the pending watchers for an order id.
// Caller must hold the lock.
func (c *OrderCache) collectWatchers(orderID string) []*orderWatch {
	pending := c.watchers[orderID]
	if len(pending) == 0 {
		return nil
	}
	delete(c.watchers, orderID)

	fired := make([]*orderWatch, 0, len(pending))
	for _, w := range pending {
		if !w.done {
			w.done = true
			fired = append(fired, w)
		}
	}
	return fired
}

var _ domainRepo.OrderCache = (*OrderCache)(nil)
