package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user record is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrAlreadyPlayed is returned when a user draws a second time.
	ErrAlreadyPlayed = errors.New("lucky money already drawn")
	// ErrNotPlayedYet is returned when bank info is submitted before a draw.
	ErrNotPlayedYet = errors.New("lucky money not drawn yet")
	// ErrForbidden is returned when an admin acts on a user they did not create.
	ErrForbidden = errors.New("user belongs to another administrator")
	// ErrUsernameTaken is returned when a username is already registered.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmptyPrizePool is returned when a user is configured with no amounts.
	ErrEmptyPrizePool = errors.New("prize pool is empty")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
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

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrUserNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case ErrAlreadyPlayed:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ALREADY_PLAYED")
	case ErrNotPlayedYet:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NOT_PLAYED_YET")
	case ErrForbidden:
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case ErrUsernameTaken:
		return NewHTTPError(http.StatusConflict, err.Error(), "USERNAME_TAKEN")
	case ErrEmptyPrizePool:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMPTY_PRIZE_POOL")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
