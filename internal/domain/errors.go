package domain

import (
	"errors"
	"fmt"
)

// ValidationError provides detailed validation error information
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

var (
	// Saved search errors
	ErrSavedSearchNotFound = errors.New("saved search not found")
	ErrDuplicateName       = errors.New("a saved search with this name already exists")
	ErrEmptyName           = errors.New("name must not be empty")

	// Preset errors
	ErrPresetNotFound = errors.New("filter preset not found")

	// History errors
	ErrHistoryItemNotFound = errors.New("history item not found")

	// Backend errors
	ErrNetwork        = errors.New("search backend unavailable")
	ErrInvalidRequest = errors.New("invalid search request")

	// Persistence errors
	ErrPersistence       = errors.New("persistent storage unavailable")
	ErrUnsupportedFormat = errors.New("unsupported serialization format")

	// General errors
	ErrNotFound = errors.New("resource not found")
)

// ErrorKind classifies failures surfaced by the search controller.
type ErrorKind string

const (
	ErrorKindValidation  ErrorKind = "validation"
	ErrorKindNetwork     ErrorKind = "network"
	ErrorKindPersistence ErrorKind = "persistence"
)

// SearchError is the user-facing classification of a failed search.
// Only network errors ever reach the UI; the other kinds are corrected or
// degraded locally and exist for logging.
type SearchError struct {
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
	Err       error     `json:"-"`
}

func (e *SearchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// NewNetworkError wraps a backend failure. Network errors can always be retried.
func NewNetworkError(err error) *SearchError {
	return &SearchError{
		Kind:      ErrorKindNetwork,
		Message:   "search request failed",
		Retryable: true,
		Err:       err,
	}
}
