package enum

// OrderState represents the lifecycle state of an order. The upstream
// platform owns the lifecycle; only DRAFT orders are mutable on this side.
type OrderState string

const (
	OrderStateDraft     OrderState = "DRAFT"
	OrderStateNew       OrderState = "NEW"
	OrderStateAccepted  OrderState = "ACCEPTED"
	OrderStateCompleted OrderState = "COMPLETED"
	OrderStateCancelled OrderState = "CANCELLED"
)

func (s OrderState) IsValid() bool {
	switch s {
	case OrderStateDraft, OrderStateNew, OrderStateAccepted, OrderStateCompleted, OrderStateCancelled:
		return true
	}
	return false
}

// Mutable reports whether the order can still be edited locally.
func (s OrderState) Mutable() bool {
	return s == OrderStateDraft
}
