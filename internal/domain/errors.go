package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDateRange     = errors.New("check-out must be after check-in")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrRoomNotFound         = errors.New("room not found")
	ErrNotOwner             = errors.New("booking belongs to another user")
	ErrAlreadyCancelled     = errors.New("booking is already cancelled")
	ErrStayCompleted        = errors.New("stay is already completed")
	ErrConfirmationConflict = errors.New("confirmation id already exists")
	ErrBookingInProgress    = errors.New("an identical booking is already in progress")
)

type ValidationCode string

const (
	CodeMissingField ValidationCode = "missing_field"
	CodeBadEmail     ValidationCode = "bad_email"
	CodeGuestCount   ValidationCode = "guest_count"
	CodeBadDateRange ValidationCode = "bad_date_range"
	CodeBadCard      ValidationCode = "bad_card"
	CodeBadPayment   ValidationCode = "bad_payment_method"
)

// ValidationError rejects a booking request before any external call is made.
type ValidationError struct {
	Code    ValidationCode
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func NewValidationError(code ValidationCode, field, message string) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: message}
}
