package dto

// APIResponse is the envelope every backend endpoint answers with
type APIResponse struct {
	Data    interface{}  `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// SuccessResponse is returned for operations with no payload.
// The client also synthesizes it for 204 responses.
type SuccessResponse struct {
	Success bool `json:"success"`
}
