package enum

// OrderEvent is the kind of change announced on the order push channel.
type OrderEvent string

const (
	OrderEventCreated OrderEvent = "CREATED"
	OrderEventUpdated OrderEvent = "UPDATED"
	OrderEventDeleted OrderEvent = "DELETE"
)

func (e OrderEvent) IsValid() bool {
	switch e {
	case OrderEventCreated, OrderEventUpdated, OrderEventDeleted:
		return true
	}
	return false
}
