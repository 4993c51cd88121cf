package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the error type services raise for every rejected
// precondition. Controllers map Code/Status straight to the response;
// anything that is not an AppError is treated as internal.
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// AsAppError unwraps err into an *AppError if one is anywhere in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func NewInvalidInput(message string) *AppError {
	return &AppError{Code: "error.invalidInput", Message: message, Status: http.StatusBadRequest}
}

func NewInvalidDateRange(message string) *AppError {
	return &AppError{Code: "error.invalidDateRange", Message: message, Status: http.StatusBadRequest}
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: "error.notFound", Message: message, Status: http.StatusNotFound}
}

func NewConflict(message string) *AppError {
	return &AppError{Code: "error.conflict", Message: message, Status: http.StatusConflict}
}

func NewInvalidTransition(message string) *AppError {
	return &AppError{Code: "error.invalidTransition", Message: message, Status: http.StatusUnprocessableEntity}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Code: "error.unauthorized", Message: message, Status: http.StatusUnauthorized}
}

func NewForbidden(message string) *AppError {
	return &AppError{Code: "error.forbidden", Message: message, Status: http.StatusForbidden}
}

func NewInternal(message string, err error) *AppError {
	return &AppError{Code: "error.internal", Message: message, Status: http.StatusInternalServerError, Err: err}
}
