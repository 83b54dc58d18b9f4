package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qmenu/selforder-api/internal/application/service"
	"github.com/qmenu/selforder-api/internal/presentation/http/dto/request"
	"github.com/qmenu/selforder-api/internal/presentation/http/dto/response"
)

// SessionHandler handles device registration and session lifecycle requests
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// RegisterDevice handles provisioning a new kiosk device
func (h *SessionHandler) RegisterDevice(c *gin.Context) {
	var req request.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	out, err := h.sessionService.RegisterDevice(c.Request.Context(), &service.RegisterDeviceInput{
		BranchID: req.BranchID,
		Name:     req.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Device registered successfully", gin.H{
		"device": out.Device,
		"code":   out.Code,
		"secret": out.Secret,
	})
}

// StartSession handles opening a guest session on a table
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req request.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	out, err := h.sessionService.StartSession(c.Request.Context(), &service.StartSessionInput{
		DeviceCode:      req.DeviceCode,
		DeviceSecret:    req.DeviceSecret,
		ParticipantCode: req.ParticipantCode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Session started", gin.H{
		"sessionId":   out.SessionID,
		"token":       out.Token,
		"participant": out.Participant,
	})
}

// EndSession handles closing the current session
func (h *SessionHandler) EndSession(c *gin.Context) {
	sessionID := GetSessionID(c)
	h.sessionService.EndSession(c.Request.Context(), sessionID)
	response.OK(c, "Session ended", nil)
}
