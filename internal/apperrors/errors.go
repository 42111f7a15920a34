package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidAmount indicates a non-positive credit amount was passed to grant/consume/refund.
var ErrInvalidAmount = errors.New("credit amount must be positive")

// ErrInsufficientCredits indicates a consume request exceeds the user's spendable balance.
// Use errors.Is against this sentinel; the concrete error carries the shortfall numbers.
var ErrInsufficientCredits = errors.New("insufficient credits")

// ErrTooManyFragments indicates a consume request could not be serviced within the
// bounded grant page scan. This is an operational anomaly, not a user-facing error.
var ErrTooManyFragments = errors.New("too many grant fragments to service consumption")

// ErrAlreadyReversed indicates a refund was requested for a consumption that has
// already been reversed.
var ErrAlreadyReversed = errors.New("consumption already reversed")

// InsufficientCreditsError reports the numeric shortfall for a rejected consumption.
type InsufficientCreditsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: required %d, available %d", e.Required, e.Available)
}

// Is lets callers match with errors.Is(err, ErrInsufficientCredits).
func (e *InsufficientCreditsError) Is(target error) bool {
	return target == ErrInsufficientCredits
}

// NewInsufficientCreditsError creates the typed shortfall error.
func NewInsufficientCreditsError(required, available int64) *InsufficientCreditsError {
	return &InsufficientCreditsError{Required: required, Available: available}
}

// AppError wraps lower-level failures with an HTTP-ish status code and message.
// Repositories use it for infrastructure failures (begin/commit/rollback, SQL errors).
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
