package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// NewSessionID generates an opaque id for a table session
func NewSessionID() string {
	return uuid.New().String()
}

// GenerateDeviceCode generates a short provisioning code for a new kiosk
func GenerateDeviceCode() string {
	return "KIOSK-" + strings.ToUpper(uuid.New().String()[:8])
}
