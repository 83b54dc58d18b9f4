package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/qmenu/selforder-api/internal/application/service"
	"github.com/qmenu/selforder-api/internal/domain/entity"
	"github.com/qmenu/selforder-api/internal/presentation/http/dto/request"
	"github.com/qmenu/selforder-api/internal/presentation/http/dto/response"
)

// CartHandler handles draft cart HTTP requests
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get handles retrieving the session's draft cart
func (h *CartHandler) Get(c *gin.Context) {
	sessionID := GetSessionID(c)
	cart := h.cartService.Get(c.Request.Context(), sessionID)
	response.OK(c, "Cart retrieved successfully", cart)
}

// AddVariant handles adding one unit of a variant to the cart
func (h *CartHandler) AddVariant(c *gin.Context) {
	var req request.AddVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	variantID, err := uuid.Parse(req.VariantID)
	if err != nil {
		response.BadRequest(c, "Invalid variant id")
		return
	}

	sessionID := GetSessionID(c)
	cart, err := h.cartService.AddVariant(c.Request.Context(), sessionID, variantID, req.ProductID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart", cart)
}

// AddItem handles adding a pre-configured line to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	variantID, err := uuid.Parse(req.VariantID)
	if err != nil {
		response.BadRequest(c, "Invalid variant id")
		return
	}

	sessionID := GetSessionID(c)
	cart, err := h.cartService.AddConfigured(c.Request.Context(), sessionID, variantID, req.ProductID, req.Quantity, req.Comment, toOptionSelection(req.Options))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart", cart)
}

// RemoveProduct handles removing one unit of a product from the cart
func (h *CartHandler) RemoveProduct(c *gin.Context) {
	var req request.RemoveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sessionID := GetSessionID(c)
	cart := h.cartService.Remove(c.Request.Context(), sessionID, req.ProductID)
	response.OK(c, "Item removed from cart", cart)
}

// IncreaseItem handles incrementing one cart line by its uuid
func (h *CartHandler) IncreaseItem(c *gin.Context) {
	sessionID := GetSessionID(c)
	cart := h.cartService.Increase(c.Request.Context(), sessionID, c.Param("uuid"))
	response.OK(c, "Cart updated", cart)
}

// DecreaseItem handles decrementing one cart line by its uuid
func (h *CartHandler) DecreaseItem(c *gin.Context) {
	sessionID := GetSessionID(c)
	cart := h.cartService.Decrease(c.Request.Context(), sessionID, c.Param("uuid"))
	response.OK(c, "Cart updated", cart)
}

// RemoveItem handles removing one cart line by its uuid
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID := GetSessionID(c)
	cart := h.cartService.RemoveItem(c.Request.Context(), sessionID, c.Param("uuid"))
	response.OK(c, "Cart updated", cart)
}

// SetItemComment handles setting the kitchen note on a variant's lines
func (h *CartHandler) SetItemComment(c *gin.Context) {
	var req request.SetItemCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sessionID := GetSessionID(c)
	cart := h.cartService.SetItemComment(c.Request.Context(), sessionID, c.Param("id"), req.Comment)
	response.OK(c, "Cart updated", cart)
}

// Clear handles emptying the session's draft cart
func (h *CartHandler) Clear(c *gin.Context) {
	sessionID := GetSessionID(c)
	cart := h.cartService.Clear(c.Request.Context(), sessionID)
	response.OK(c, "Cart cleared", cart)
}

func toOptionSelection(options []request.AddItemOptionRequest) []entity.OrderItemOption {
	selection := make([]entity.OrderItemOption, 0, len(options))
	for _, opt := range options {
		selection = append(selection, entity.OrderItemOption{
			ID:    opt.ID,
			Value: opt.Value,
		})
	}
	return selection
}
