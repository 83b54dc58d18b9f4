package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qmenu/selforder-api/internal/domain/entity"
	"github.com/qmenu/selforder-api/internal/domain/enum"
)

func push(event enum.OrderEvent, customer string, order *entity.Order) *entity.OrderPush {
	return &entity.OrderPush{Event: event, Customer: customer, Order: order}
}

func TestOrderCacheApply(t *testing.T) {
	t.Run("created appends to the customer list", func(t *testing.T) {
		c := NewOrderCache(nil)

		c.Apply(push(enum.OrderEventCreated, "s1", &entity.Order{ID: "o1", Number: "100"}))

		orders, filled := c.List("s1")
		require.True(t, filled)
		require.Len(t, orders, 1)
		assert.Equal(t, "o1", orders[0].ID)

		got, ok := c.Get("o1")
		require.True(t, ok)
		assert.Equal(t, "100", got.Number)
	})

	t.Run("updated replaces in place and keeps order", func(t *testing.T) {
		c := NewOrderCache(nil)
		c.Apply(push(enum.OrderEventCreated, "s1", &entity.Order{ID: "o1"}))
		c.Apply(push(enum.OrderEventCreated, "s1", &entity.Order{ID: "o2"}))

		c.Apply(push(enum.OrderEventUpdated, "s1", &entity.Order{ID: "o1", PaymentState: enum.PaymentStatePaid}))

		orders, _ := c.List("s1")
		require.Len(t, orders, 2)
		assert.Equal(t, "o1", orders[0].ID)
		assert.Equal(t, enum.PaymentStatePaid, orders[0].PaymentState)
	})

	t.Run("updated for an unseen id appends", func(t *testing.T) {
		c := NewOrderCache(nil)

		c.Apply(push(enum.OrderEventUpdated, "s1", &entity.Order{ID: "o9"}))

		orders, filled := c.List("s1")
		require.True(t, filled)
		require.Len(t, orders, 1)
		assert.Equal(t, "o9", orders[0].ID)
	})

	t.Run("replaying an event is a no-op", func(t *testing.T) {
		c := NewOrderCache(nil)
		ev := push(enum.OrderEventCreated, "s1", &entity.Order{ID: "o1", Number: "100"})

		c.Apply(ev)
		c.Apply(ev)

		orders, _ := c.List("s1")
		assert.Len(t, orders, 1)
	})

	t.Run("delete removes from the list and voids the id entry", func(t *testing.T) {
		c := NewOrderCache(nil)
		c.Apply(push(enum.OrderEventCreated, "s1", &entity.Order{ID: "o1"}))
		c.Apply(push(enum.OrderEventCreated, "s1", &entity.Order{ID: "o2"}))

		c.Apply(push(enum.OrderEventDeleted, "s1", &entity.Order{ID: "o1"}))

		orders, _ := c.List("s1")
		require.Len(t, orders, 1)
		assert.Equal(t, "o2", orders[0].ID)

		got, ok := c.Get("o1")
		assert.True(t, ok)
		assert.Nil(t, got)
	})

	t.Run("malformed pushes are dropped", func(t *testing.T) {
		c := NewOrderCache(nil)
		c.Apply(push(enum.OrderEventCreated, "s1", &entity.Order{ID: "o1"}))

		c.Apply(nil)
		c.Apply(push(enum.OrderEventCreated, "s1", nil))
		c.Apply(push(enum.OrderEventCreated, "s1", &entity.Order{}))
		c.Apply(push(enum.OrderEvent("EXPLODED"), "s1", &entity.Order{ID: "o2"}))

		orders, _ := c.List("s1")
		assert.Len(t, orders, 1)
	})

	t.Run("customers are isolated", func(t *testing.T) {
		c := NewOrderCache(nil)
		c.Apply(push(enum.OrderEventCreated, "s1", &entity.Order{ID: "o1"}))

		_, filled := c.List("s2")
		assert.False(t, filled)
	})
}

func TestOrderCacheFill(t *testing.T) {
	t.Run("distinguishes empty from cold", func(t *testing.T) {
		c := NewOrderCache(nil)

		_, filled := c.List("s1")
		assert.False(t, filled)

		c.Fill("s1", nil)

		orders, filled := c.List("s1")
		assert.True(t, filled)
		assert.Empty(t, orders)
	})

	t.Run("seeds both the list and the id index", func(t *testing.T) {
		c := NewOrderCache(nil)

		c.Fill("s1", []entity.Order{{ID: "o1"}, {ID: "o2"}})

		orders, _ := c.List("s1")
		assert.Len(t, orders, 2)
		got, ok := c.Get("o2")
		require.True(t, ok)
		assert.Equal(t, "o2", got.ID)
	})

	t.Run("list result is a copy", func(t *testing.T) {
		c := NewOrderCache(nil)
		c.Fill("s1", []entity.Order{{ID: "o1", Number: "100"}})

		orders, _ := c.List("s1")
		orders[0].Number = "tampered"

		again, _ := c.List("s1")
		assert.Equal(t, "100", again[0].Number)
	})
}

func TestOrderCacheAppend(t *testing.T) {
	c := NewOrderCache(nil)

	c.Append("s1", &entity.Order{ID: "o1"})
	c.Append("s1", nil)
	c.Append("s1", &entity.Order{})

	orders, filled := c.List("s1")
	require.True(t, filled)
	assert.Len(t, orders, 1)
}

func TestOrderCacheEvict(t *testing.T) {
	t.Run("drops the list and its id entries", func(t *testing.T) {
		c := NewOrderCache(nil)
		c.Fill("s1", []entity.Order{{ID: "o1"}, {ID: "o2"}})

		c.Evict("s1")

		_, filled := c.List("s1")
		assert.False(t, filled)
		_, ok := c.Get("o1")
		assert.False(t, ok)
		_, ok = c.Get("o2")
		assert.False(t, ok)
	})

	t.Run("leaves other customers alone", func(t *testing.T) {
		c := NewOrderCache(nil)
		c.Fill("s1", []entity.Order{{ID: "o1"}})
		c.Fill("s2", []entity.Order{{ID: "o2"}})

		c.Evict("s1")

		orders, filled := c.List("s2")
		require.True(t, filled)
		assert.Len(t, orders, 1)
		_, ok := c.Get("o2")
		assert.True(t, ok)
	})

	t.Run("evicting an unknown customer is a no-op", func(t *testing.T) {
		c := NewOrderCache(nil)
		c.Evict("never-seen")

		_, filled := c.List("never-seen")
		assert.False(t, filled)
	})
}

func TestOrderCacheWatch(t *testing.T) {
	t.Run("fires once on the next event for the id", func(t *testing.T) {
		c := NewOrderCache(nil)

		var fired []*entity.Order
		c.Watch("o1", func(o *entity.Order) { fired = append(fired, o) })

		c.Apply(push(enum.OrderEventUpdated, "s1", &entity.Order{ID: "o1", PaymentState: enum.PaymentStatePaid}))
		c.Apply(push(enum.OrderEventUpdated, "s1", &entity.Order{ID: "o1"}))

		require.Len(t, fired, 1)
		assert.Equal(t, enum.PaymentStatePaid, fired[0].PaymentState)
	})

	t.Run("does not fire for other orders", func(t *testing.T) {
		c := NewOrderCache(nil)

		called := false
		c.Watch("o1", func(*entity.Order) { called = true })

		c.Apply(push(enum.OrderEventCreated, "s1", &entity.Order{ID: "o2"}))

		assert.False(t, called)
	})

	t.Run("cancel prevents the callback", func(t *testing.T) {
		c := NewOrderCache(nil)

		called := false
		cancel := c.Watch("o1", func(*entity.Order) { called = true })
		cancel()

		c.Apply(push(enum.OrderEventCreated, "s1", &entity.Order{ID: "o1"}))

		assert.False(t, called)
	})

	t.Run("callback may re-enter the cache", func(t *testing.T) {
		c := NewOrderCache(nil)

		var seen *entity.Order
		c.Watch("o1", func(*entity.Order) {
			seen, _ = c.Get("o1")
		})

		c.Apply(push(enum.OrderEventCreated, "s1", &entity.Order{ID: "o1", Number: "42"}))

		require.NotNil(t, seen)
		assert.Equal(t, "42", seen.Number)
	})
}
