package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qmenu/selforder-api/internal/application/service"
	"github.com/qmenu/selforder-api/internal/presentation/http/dto/request"
	"github.com/qmenu/selforder-api/internal/presentation/http/dto/response"
)

const maxWaitTimeout = 60 * time.Second

// OrderHandler handles committed order HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Submit handles submitting the session's draft cart as an order
func (h *OrderHandler) Submit(c *gin.Context) {
	var req request.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sessionID := GetSessionID(c)
	participantID := GetParticipantID(c)
	if participantID == nil {
		response.Unauthorized(c, "Session not bound to a table")
		return
	}

	order, err := h.orderService.Submit(c.Request.Context(), sessionID, participantID.String(), &service.SubmitOrderInput{
		Guests:  req.Guests,
		Comment: req.Comment,
		Type:    req.Type,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order submitted successfully", order)
}

// List handles listing the session's committed orders
func (h *OrderHandler) List(c *gin.Context) {
	sessionID := GetSessionID(c)

	orders, err := h.orderService.ListOrders(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Orders retrieved successfully", orders)
}

// Get handles retrieving one committed order
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// Wait long-polls until the order's payment reaches a terminal state or the
// timeout elapses. The payment screen uses this instead of busy polling.
func (h *OrderHandler) Wait(c *gin.Context) {
	timeout := 30 * time.Second
	if raw := c.Query("timeout"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}
	if timeout > maxWaitTimeout {
		timeout = maxWaitTimeout
	}

	order, decided, err := h.orderService.WaitForDecision(c.Request.Context(), c.Param("id"), timeout)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order state retrieved", gin.H{
		"decided": decided,
		"order":   order,
	})
}
