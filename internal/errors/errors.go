package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when the email is unknown or the
	// password does not match. The two cases are deliberately
	// indistinguishable.
	ErrInvalidCredentials = errors.New("the provided credentials are incorrect")
	// ErrAdminLoginBlocked is returned when an administrator attempts the API login.
	ErrAdminLoginBlocked = errors.New("admins must use the admin panel")
	// ErrUnauthenticated is returned when no valid session accompanies the request.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrTaskNotFound is returned when a task is absent or owned by another
	// user. Ownership mismatches are not distinguishable from absence.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidStatus is returned when a status value is outside the enumeration.
	ErrInvalidStatus = errors.New("invalid task status")
	// ErrRateLimited is returned when too many attempts arrive in the window.
	ErrRateLimited = errors.New("too many attempts")
)

// ErrorResponse represents a standardized error response. Fields carries
// per-field messages on validation failures.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string][]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// NewValidationError creates a 422 with per-field messages.
func NewValidationError(fields map[string][]string) *HTTPError {
	return &HTTPError{
		StatusCode: http.StatusUnprocessableEntity,
		Message:    "validation failed",
		Code:       "VALIDATION_FAILED",
		Fields:     fields,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		// Same status and shape regardless of which credential was wrong.
		return &HTTPError{
			StatusCode: http.StatusUnprocessableEntity,
			Message:    err.Error(),
			Code:       "INVALID_CREDENTIALS",
			Fields:     map[string][]string{"email": {"The provided credentials are incorrect."}},
		}
	case errors.Is(err, ErrAdminLoginBlocked):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ADMIN_LOGIN_BLOCKED")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrTaskNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TASK_NOT_FOUND")
	case errors.Is(err, ErrInvalidStatus):
		return NewValidationError(map[string][]string{"status": {"The selected status is invalid."}})
	case errors.Is(err, ErrRateLimited):
		return NewHTTPError(http.StatusTooManyRequests, err.Error(), "RATE_LIMITED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
