package entity

import (
	"time"

	"github.com/qmenu/selforder-api/internal/domain/enum"
)

// Order is a read-only projection of a committed order owned by the upstream
// platform. All monetary fields are upstream-computed and authoritative; this
// service never recomputes them.
type Order struct {
	ID             string            `json:"id"`
	Number         string            `json:"number"`
	State          enum.OrderState   `json:"state"`
	PaymentState   enum.PaymentState `json:"paymentState"`
	Items          []OrderItem       `json:"items"`
	TotalAmount    int64             `json:"totalAmount"`
	GrandTotal     int64             `json:"grandTotal"`
	PaidAmount     int64             `json:"paidAmount"`
	DiscountAmount int64             `json:"discountAmount"`
	TaxAmount      int64             `json:"taxAmount"`
	TotalQuantity  int               `json:"totalQuantity"`
	Transactions   []Transaction     `json:"transactions,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// Transaction is one payment attempt recorded on a committed order.
type Transaction struct {
	ID     string            `json:"id"`
	Type   string            `json:"type"`
	Amount int64             `json:"amount"`
	State  enum.PaymentState `json:"state"`
	Token  string            `json:"token,omitempty"`
}

// OrderPush is the payload delivered on the per-customer push channel when
// the upstream reports an order change.
type OrderPush struct {
	Event    enum.OrderEvent `json:"event"`
	Customer string          `json:"customer"`
	Order    *Order          `json:"order"`
}
