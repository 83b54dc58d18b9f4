package repository

import (
	"context"

	"github.com/qmenu/selforder-api/internal/domain/entity"
)

// CartStore persists draft carts across kiosk restarts, keyed by session id.
// Implementations must treat read/write failures as a cache miss at the call
// site: a broken store must never take the cart flow down.
type CartStore interface {
	Load(ctx context.Context, sessionID string) (*entity.Cart, error)
	Save(ctx context.Context, sessionID string, cart *entity.Cart) error
	Remove(ctx context.Context, sessionID string) error
}

// OrderCache is the per-customer projection of committed orders, maintained
// from push events and cold-start fetches. Draft carts never pass through it.
type OrderCache interface {
	List(customerID string) ([]entity.Order, bool)
	Get(orderID string) (*entity.Order, bool)
	// Fill seeds the list for a customer wholesale (cold-cache fetch).
	Fill(customerID string, orders []entity.Order)
	// Append records a freshly submitted order ahead of its push event.
	Append(customerID string, order *entity.Order)
	// Apply merges one push event; replaying an event is a no-op.
	Apply(push *entity.OrderPush)
	// Watch registers a one-shot callback fired when an event for the given
	// order id is next applied. The returned func cancels the watch.
	Watch(orderID string, fn func(*entity.Order)) (cancel func())
	// Evict drops everything cached for a customer when the session ends or
	// expires.
	Evict(customerID string)
}

// OrderSubmitter sends a prepared order to the upstream ordering platform.
type OrderSubmitter interface {
	CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error)
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
	ListOrders(ctx context.Context, customerID string) ([]entity.Order, error)
}

// CreateOrderInput is the wire shape of an order submission.
type CreateOrderInput struct {
	Participant string                 `json:"participant"`
	Customer    string                 `json:"customer"`
	Type        string                 `json:"type"`
	Guests      int                    `json:"guests"`
	Comment     string                 `json:"comment"`
	Items       []CreateOrderItemInput `json:"items"`
}

// CreateOrderItemInput is one submitted line.
type CreateOrderItemInput struct {
	ID       string                  `json:"id"`
	Quantity int                     `json:"quantity"`
	Comment  string                  `json:"comment"`
	Options  []CreateOrderItemOption `json:"options"`
}

// CreateOrderItemOption is one selected option on a submitted line.
type CreateOrderItemOption struct {
	ID    string `json:"id"`
	Value string `json:"value,omitempty"`
}
