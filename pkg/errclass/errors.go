package errclass

import (
	"errors"
	"fmt"
)

// SnapError is a stable, machine-readable error class.
type SnapError struct {
	Code    string
	Message string
}

func (e *SnapError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SnapError) Is(target error) bool {
	t, ok := target.(*SnapError)
	return ok && e.Code == t.Code
}

// WithMessage returns a new SnapError with the same Code but a specific message.
func (e *SnapError) WithMessage(msg string) *SnapError {
	return &SnapError{Code: e.Code, Message: msg}
}

// WithMessagef returns a new SnapError with a formatted message.
func (e *SnapError) WithMessagef(format string, args ...any) *SnapError {
	return &SnapError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// All stable error classes.
var (
	ErrUsage                = &SnapError{Code: "E_USAGE"}
	ErrConfigInvalid        = &SnapError{Code: "E_CONFIG_INVALID"}
	ErrLabelInvalid         = &SnapError{Code: "E_LABEL_INVALID"}
	ErrInventoryUnavailable = &SnapError{Code: "E_INVENTORY_UNAVAILABLE"}
	ErrInventoryMalformed   = &SnapError{Code: "E_INVENTORY_MALFORMED"}
	ErrLockHeld             = &SnapError{Code: "E_LOCK_HELD"}
	ErrActionFailed         = &SnapError{Code: "E_ACTION_FAILED"}
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitCode maps an error to the process exit status: 0 for nil, 2 for
// usage and configuration errors, 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch {
	case errors.Is(err, ErrUsage),
		errors.Is(err, ErrConfigInvalid),
		errors.Is(err, ErrLabelInvalid):
		return ExitUsage
	default:
		return ExitFailure
	}
}
