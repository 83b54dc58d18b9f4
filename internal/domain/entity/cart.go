package entity

import (
	"github.com/google/uuid"
	"github.com/qmenu/selforder-api/internal/domain/enum"
)

// Cart is the in-progress draft order for one kiosk session. It is the only
// order state that is mutable on this side; committed orders are read-only
// projections owned by the upstream platform.
//
// TotalAmount, GrandTotal and TotalQuantity are derived and recomputed after
// every mutation. Callers must never write them directly.
type Cart struct {
	ID            string          `json:"id"`
	Items         []OrderItem     `json:"items"`
	TotalAmount   int64           `json:"totalAmount"`
	GrandTotal    int64           `json:"grandTotal"`
	TotalQuantity int             `json:"totalQuantity"`
	State         enum.OrderState `json:"state"`
}

// OrderItem is one line of a cart or order. ID is the selected variant id;
// UUID distinguishes repeated adds of the same variant with different option
// selections. Prices are stored in minor units (cents).
type OrderItem struct {
	ID        string            `json:"id"`
	UUID      string            `json:"uuid"`
	ProductID string            `json:"productId"`
	Name      string            `json:"name"`
	Price     int64             `json:"price"`
	Quantity  int               `json:"quantity"`
	Options   []OrderItemOption `json:"options"`
	Comment   string            `json:"comment"`
	Discount  int64             `json:"discount"`
	Image     string            `json:"image"`
	State     enum.ItemState    `json:"state"`
}

// OrderItemOption is a selected modifier on a line. Price may be negative
// when the upstream models a discount as an option.
type OrderItemOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Value string `json:"value,omitempty"`
}

// CartVariant is the descriptor the presentation layer passes when adding a
// product variant to the cart.
type CartVariant struct {
	ID        string            `json:"id"`
	ProductID string            `json:"productId"`
	Name      string            `json:"name"`
	SalePrice int64             `json:"salePrice"`
	Options   []OrderItemOption `json:"options"`
}

// NewCart returns an empty draft cart.
func NewCart() *Cart {
	return &Cart{
		ID:    "new-order",
		Items: []OrderItem{},
		State: enum.OrderStateDraft,
	}
}

// Add merges the variant into the cart: an existing DRAFT line with the same
// variant id gets its quantity incremented, otherwise a new line with
// quantity 1 and a fresh uuid is appended. A nil-ish variant (empty id) and a
// cart that is no longer mutable are both no-ops.
func (c *Cart) Add(variant CartVariant) {
	if variant.ID == "" || !c.State.Mutable() {
		return
	}

	for i := range c.Items {
		if c.Items[i].State == enum.ItemStateDraft && c.Items[i].ID == variant.ID {
			c.Items[i].Quantity++
			c.recalculate()
			return
		}
	}

	options := variant.Options
	if options == nil {
		options = []OrderItemOption{}
	}
	c.Items = append(c.Items, OrderItem{
		ID:        variant.ID,
		UUID:      uuid.New().String(),
		ProductID: variant.ProductID,
		Name:      variant.Name,
		Price:     variant.SalePrice,
		Quantity:  1,
		Options:   options,
		State:     enum.ItemStateDraft,
	})
	c.recalculate()
}

// Remove decrements the line matching the product id by one; a line reaching
// quantity zero is dropped rather than stored. Unknown product ids are a
// no-op.
func (c *Cart) Remove(productID string) {
	if productID == "" {
		return
	}

	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID == productID {
			item.Quantity--
		}
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}
	c.Items = kept
	c.recalculate()
}

// Increase bumps the quantity of the line identified by uuid.
func (c *Cart) Increase(itemUUID string) {
	for i := range c.Items {
		if c.Items[i].UUID == itemUUID {
			c.Items[i].Quantity++
			break
		}
	}
	c.recalculate()
}

// Decrease lowers the quantity of the line identified by uuid, removing the
// line instead of letting it reach zero.
func (c *Cart) Decrease(itemUUID string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.UUID == itemUUID {
			if item.Quantity <= 1 {
				continue
			}
			item.Quantity--
		}
		kept = append(kept, item)
	}
	c.Items = kept
	c.recalculate()
}

// RemoveItem drops the line identified by uuid regardless of quantity.
func (c *Cart) RemoveItem(itemUUID string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.UUID != itemUUID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
	c.recalculate()
}

// AddItem appends a pre-built line (configured in the product detail flow,
// options already selected) without merging into existing lines.
func (c *Cart) AddItem(item OrderItem) {
	if item.ID == "" || !c.State.Mutable() {
		return
	}
	if item.UUID == "" {
		item.UUID = uuid.New().String()
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if item.State == "" {
		item.State = enum.ItemStateDraft
	}
	if item.Options == nil {
		item.Options = []OrderItemOption{}
	}
	c.Items = append(c.Items, item)
	c.recalculate()
}

// SetItemComment attaches free text to the first line carrying the variant
// id; later lines of the same variant keep their own comments. Empty comments
// are allowed; rendering treats them as "no comment".
func (c *Cart) SetItemComment(itemID, comment string) {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Comment = comment
			return
		}
	}
}

// Clear resets the cart to an empty draft after a successful submission or a
// session reset.
func (c *Cart) Clear() {
	c.Items = []OrderItem{}
	c.State = enum.OrderStateDraft
	c.recalculate()
}

// VariantIDs returns the distinct variant ids on the cart, in line order.
func (c *Cart) VariantIDs() []string {
	seen := make(map[string]bool, len(c.Items))
	ids := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		ids = append(ids, item.ID)
	}
	return ids
}

// UnitSubtotal is the per-unit price of a line including its options. The
// result is the absolute value of the sum: the upstream data occasionally
// carries negative-priced options (discounts), and the historical behavior is
// to treat a negative unit subtotal as its magnitude.
func (i OrderItem) UnitSubtotal() int64 {
	sum := i.Price
	for _, opt := range i.Options {
		sum += opt.Price
	}
	if sum < 0 {
		sum = -sum
	}
	return sum
}

// recalculate rederives the cart totals from its lines. RETURN lines are
// excluded. GrandTotal mirrors TotalAmount: tax and fees are computed
// upstream on the committed order, never here.
func (c *Cart) recalculate() {
	var amount int64
	var quantity int
	for _, item := range c.Items {
		if !item.State.Counted() {
			continue
		}
		amount += item.UnitSubtotal() * int64(item.Quantity)
		quantity += item.Quantity
	}
	c.TotalAmount = amount
	c.GrandTotal = amount
	c.TotalQuantity = quantity
}
