package errors

import (
	"net/http"
)

// APIError represents a custom error type for API responses.
// Only the message is serialized; status and details stay server-side.
type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
	Details string `json:"-"`
}

// Error returns the error message
func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(message string, status int, details ...string) *APIError {
	err := &APIError{
		Message: message,
		Status:  status,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

var (
	ErrInvalidInput = NewAPIError("Invalid inputs passed, please check your data.", http.StatusUnprocessableEntity)
	ErrAuth         = NewAPIError("Authentication failed!", http.StatusForbidden)
	ErrUnknown      = NewAPIError("An unknown error occurred!", http.StatusInternalServerError)
)

// Wrap tags an arbitrary error with a status and user-visible message.
// An error that already is an APIError passes through untouched so the
// original status and message survive handler boundaries.
func Wrap(err error, message string, status int) *APIError {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return NewAPIError(message, status, err.Error())
}
