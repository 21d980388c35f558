package dto

// UpdateStatusRequest payload for PATCH /api/issues/:id/status.
type UpdateStatusRequest struct {
	Status   string `json:"status"`
	Comments string `json:"comments"`
}

// MessageResponse is a generic confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}
