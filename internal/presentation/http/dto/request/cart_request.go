package request

// AddVariantRequest adds one unit of a variant to the cart
type AddVariantRequest struct {
	VariantID string `json:"variantId" binding:"required,uuid"`
	ProductID string `json:"productId" binding:"required"`
}

// AddItemRequest adds a pre-configured line to the cart. Configured lines
// carry their own option selection and are never merged.
type AddItemRequest struct {
	VariantID string                 `json:"variantId" binding:"required,uuid"`
	ProductID string                 `json:"productId" binding:"required"`
	Quantity  int                    `json:"quantity" binding:"required,min=1"`
	Comment   string                 `json:"comment"`
	Options   []AddItemOptionRequest `json:"options"`
}

// AddItemOptionRequest is one selected option on a configured line
type AddItemOptionRequest struct {
	ID    string `json:"id" binding:"required"`
	Value string `json:"value"`
}

// RemoveProductRequest removes one unit of a product from the cart
type RemoveProductRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// SetItemCommentRequest sets the kitchen note on the lines of a variant
type SetItemCommentRequest struct {
	Comment string `json:"comment"`
}
