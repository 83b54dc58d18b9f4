package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetSessionID extracts the session ID from the Gin context
func GetSessionID(c *gin.Context) string {
	sessionID, exists := c.Get("session_id")
	if !exists {
		return ""
	}
	return sessionID.(string)
}

// GetParticipantID extracts the table/participant ID from the Gin context
func GetParticipantID(c *gin.Context) *uuid.UUID {
	val, exists := c.Get("participant_id")
	if !exists {
		return nil
	}
	participantID, ok := val.(uuid.UUID)
	if !ok {
		return nil
	}
	return &participantID
}

// GetBranchID extracts the branch ID from the Gin context
func GetBranchID(c *gin.Context) *uuid.UUID {
	val, exists := c.Get("branch_id")
	if !exists {
		return nil
	}
	branchID, ok := val.(uuid.UUID)
	if !ok {
		return nil
	}
	return &branchID
}

// GetDeviceID extracts the device ID from the Gin context
func GetDeviceID(c *gin.Context) *uuid.UUID {
	val, exists := c.Get("device_id")
	if !exists {
		return nil
	}
	deviceID, ok := val.(uuid.UUID)
	if !ok {
		return nil
	}
	return &deviceID
}
