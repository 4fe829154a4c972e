package dto

// ErrorResponse is the uniform error payload for the HTTP API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Optional context for stock/return errors.
	ProductID string `json:"product_id,omitempty"`
	Available *int64 `json:"available,omitempty"`
	Requested *int64 `json:"requested,omitempty"`
}

// MessageResponse wraps a simple confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}
