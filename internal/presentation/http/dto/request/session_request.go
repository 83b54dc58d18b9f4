package request

// RegisterDeviceRequest provisions a new kiosk device
type RegisterDeviceRequest struct {
	BranchID string `json:"branchId" binding:"required,uuid"`
	Name     string `json:"name" binding:"required,min=2,max=255"`
}

// StartSessionRequest opens a guest session on a table
type StartSessionRequest struct {
	DeviceCode      string `json:"deviceCode" binding:"required"`
	DeviceSecret    string `json:"deviceSecret" binding:"required"`
	ParticipantCode string `json:"participantCode" binding:"required"`
}
