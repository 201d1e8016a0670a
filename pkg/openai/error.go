// Package openai provides the OpenAI-compatible wire representations the
// gateway accepts and emits.
package openai

// Gateway-level error codes. Upstream failure codes come from the upstream
// package.
const (
	CodeInvalidRequest   = "invalid_request_error"
	CodeInvalidAPIKey    = "invalid_api_key"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
)

// ErrorResponse is the uniform error envelope returned for every failure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a single failure.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// NewError builds the envelope for the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{
		Message: message,
		Type:    "api_error",
		Code:    code,
	}}
}
