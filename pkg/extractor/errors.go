package extractor

import "fmt"

// ErrorType categorizes extraction service failures
type ErrorType string

const (
	ErrorTypeNetwork         ErrorType = "network"
	ErrorTypeTimeout         ErrorType = "timeout"
	ErrorTypeService         ErrorType = "service"
	ErrorTypeInvalidResponse ErrorType = "invalid_response"
)

// Error is a structured error from the extraction service. The orchestrator
// treats every type uniformly; the type only shows up in logs.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *Error) Unwrap() error {
	return e.Cause
}

func newNetworkError(cause error) *Error {
	return &Error{Type: ErrorTypeNetwork, Message: "request failed", Cause: cause}
}

func newServiceError(status int, body string) *Error {
	return &Error{Type: ErrorTypeService, Message: fmt.Sprintf("status %d: %s", status, body)}
}

func newInvalidResponseError(message string, cause error) *Error {
	return &Error{Type: ErrorTypeInvalidResponse, Message: message, Cause: cause}
}
