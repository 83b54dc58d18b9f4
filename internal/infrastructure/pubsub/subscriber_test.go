package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qmenu/selforder-api/internal/domain/entity"
	"github.com/qmenu/selforder-api/internal/domain/enum"
)

// recordingCache captures applied pushes.
type recordingCache struct {
	applied []*entity.OrderPush
}

func (c *recordingCache) List(customerID string) ([]entity.Order, bool) { return nil, false }

func (c *recordingCache) Get(orderID string) (*entity.Order, bool) { return nil, false }

func (c *recordingCache) Fill(customerID string, orders []entity.Order) {}

func (c *recordingCache) Append(customerID string, order *entity.Order) {}

func (c *recordingCache) Apply(push *entity.OrderPush) { c.applied = append(c.applied, push) }

func (c *recordingCache) Watch(string, func(*entity.Order)) (cancel func()) { return func() {} }

func (c *recordingCache) Evict(customerID string) {}

func TestHandleMessage(t *testing.T) {
	t.Run("decodes and applies a push", func(t *testing.T) {
		rec := &recordingCache{}
		s := NewOrderSubscriber(nil, "orders:", rec, nil)

		s.handleMessage("s1", []byte(`{"event":"CREATED","customer":"s1","order":{"id":"o1","totalAmount":4500}}`))

		require.Len(t, rec.applied, 1)
		assert.Equal(t, enum.OrderEventCreated, rec.applied[0].Event)
		assert.Equal(t, "o1", rec.applied[0].Order.ID)
		assert.Equal(t, int64(4500), rec.applied[0].Order.TotalAmount)
	})

	t.Run("defaults the customer from the channel", func(t *testing.T) {
		rec := &recordingCache{}
		s := NewOrderSubscriber(nil, "orders:", rec, nil)

		s.handleMessage("s1", []byte(`{"event":"UPDATED","order":{"id":"o1"}}`))

		require.Len(t, rec.applied, 1)
		assert.Equal(t, "s1", rec.applied[0].Customer)
	})

	t.Run("drops undecodable payloads", func(t *testing.T) {
		rec := &recordingCache{}
		s := NewOrderSubscriber(nil, "orders:", rec, nil)

		s.handleMessage("s1", []byte(`{not json`))
		s.handleMessage("s1", []byte(`"just a string"`))

		assert.Empty(t, rec.applied)
	})
}
