// Package response provides the envelope every HTTP response is wrapped in.
package response

// BaseResponse status codes.
const (
	StatusSuccess    = "200"
	StatusCreated    = "201"
	StatusBadRequest = "400"
)

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// BaseResponse is the standard response format.
type BaseResponse struct {
	ValidationErrors []ValidationError `json:"validation_errors,omitempty"`
	StatusCode       string            `json:"status_code"`
	IsSuccess        bool              `json:"is_success"`
	Message          string            `json:"message"`
	ErrorCode        string            `json:"error_code,omitempty"`
}

// Envelope is a BaseResponse carrying a payload.
type Envelope struct {
	Base BaseResponse `json:"base"`
	Data interface{}  `json:"data,omitempty"`
}

// Success creates a successful response.
func Success(message string) BaseResponse {
	return BaseResponse{StatusCode: StatusSuccess, IsSuccess: true, Message: message}
}

// Created creates a successful creation response.
func Created(message string) BaseResponse {
	return BaseResponse{StatusCode: StatusCreated, IsSuccess: true, Message: message}
}

// Failure creates an error response with the given status and machine readable code.
func Failure(status, code, message string) BaseResponse {
	return BaseResponse{StatusCode: status, IsSuccess: false, Message: message, ErrorCode: code}
}

// ValidationFailed creates a validation error response.
func ValidationFailed(errors []ValidationError) BaseResponse {
	return BaseResponse{
		ValidationErrors: errors,
		StatusCode:       StatusBadRequest,
		IsSuccess:        false,
		Message:          "Validation failed",
		ErrorCode:        "VALIDATION_FAILED",
	}
}

// With wraps the base response around data.
func With(base BaseResponse, data interface{}) Envelope {
	return Envelope{Base: base, Data: data}
}
