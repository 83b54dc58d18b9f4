package enum

// PaymentState is the upstream-computed payment status of a committed order.
type PaymentState string

const (
	PaymentStatePending PaymentState = "PENDING"
	PaymentStatePaid    PaymentState = "PAID"
	PaymentStateFailed  PaymentState = "FAILED"
	PaymentStateRefund  PaymentState = "REFUND"
)

// Decided reports whether the payment has reached a terminal outcome.
func (s PaymentState) Decided() bool {
	return s == PaymentStatePaid || s == PaymentStateFailed || s == PaymentStateRefund
}
