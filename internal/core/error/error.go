package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "something went wrong, please try again"
	// RemoteErrorMessage describes failures of third-party endpoints.
	RemoteErrorMessage = "the remote service did not accept the request, please try again"
	// BusyMessage is shown while a submission is still being processed.
	BusyMessage = "a submission is already in progress"
	// StorageErrorMessage describes failures of the local persistence layer.
	StorageErrorMessage = "local storage is unavailable"
	// NotFoundMessage describes lookups that matched nothing.
	NotFoundMessage = "not found"
)

// AppError wraps an underlying error with an HTTP-style status and a message
// that is safe to show to the shopper.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// Validation reports a local rule violation. No state is changed when one is returned.
func Validation(message string) error {
	return New(nil, http.StatusBadRequest, message)
}

// Validationf is Validation with formatting.
func Validationf(format string, args ...any) error {
	return Validation(fmt.Sprintf(format, args...))
}

// Remote wraps a failed call to a third-party endpoint.
func Remote(err error, message string) error {
	if message == "" {
		message = RemoteErrorMessage
	}
	return New(err, http.StatusBadGateway, message)
}

// Busy reports that the operation was rejected because another one is in flight.
func Busy() error {
	return New(nil, http.StatusConflict, BusyMessage)
}

// NotFound reports a lookup miss for the named thing.
func NotFound(what string) error {
	return New(nil, http.StatusNotFound, fmt.Sprintf("%s %s", what, NotFoundMessage))
}

// StatusOf returns the status carried by the first AppError in the chain,
// or 500 for any other non-nil error.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the shopper-facing message for err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return SystemErrorMessage
}

func IsValidation(err error) bool { return StatusOf(err) == http.StatusBadRequest }

func IsRemote(err error) bool { return StatusOf(err) == http.StatusBadGateway }

func IsBusy(err error) bool { return StatusOf(err) == http.StatusConflict }

func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

func IsStorage(err error) bool { return StatusOf(err) == http.StatusServiceUnavailable }
