package models

// ErrorMessageResponse returns the error message response struct
type ErrorMessageResponse struct {
	Response MessageError
}

// MessageError contains the inner details for the error message response
type MessageError struct {
	Message string
	Error   string
}

// ErrorResponse is returned by the identity endpoints so clients can map a
// coarse error code to user-facing text
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// HealthCheckResponse is returned by /health
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}

// SuccessResponse acknowledges a request that returns no document
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// IDResponse returns the id of a newly created document
type IDResponse struct {
	ID string `json:"id"`
}
