package enum

// ItemState represents the state of a single order line. RETURN lines are
// kept for display but excluded from totals.
type ItemState string

const (
	ItemStateDraft  ItemState = "DRAFT"
	ItemStateNew    ItemState = "NEW"
	ItemStateReturn ItemState = "RETURN"
)

// Counted reports whether the line participates in total computation.
func (s ItemState) Counted() bool {
	return s != ItemStateReturn
}
