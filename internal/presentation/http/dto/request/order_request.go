package request

// SubmitOrderRequest submits the session's draft cart as a committed order
type SubmitOrderRequest struct {
	Guests  int    `json:"guests" binding:"min=0"`
	Comment string `json:"comment"`
	Type    string `json:"type"`
}
