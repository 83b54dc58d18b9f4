package enum

// MenuState controls visibility of catalog entries on the kiosk.
type MenuState string

const (
	MenuStateActive   MenuState = "ACTIVE"
	MenuStateInactive MenuState = "INACTIVE"
	MenuStateSoldOut  MenuState = "SOLD_OUT"
)

// IsValid checks if the menu state is valid
func (s MenuState) IsValid() bool {
	switch s {
	case MenuStateActive, MenuStateInactive, MenuStateSoldOut:
		return true
	}
	return false
}

// Orderable reports whether the entry can be added to a cart.
func (s MenuState) Orderable() bool {
	return s == MenuStateActive
}
