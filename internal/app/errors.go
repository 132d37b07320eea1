package app

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidPhone is returned before any store access when a lookup key
	// is not a 10-digit number. The message is shown to end users as-is.
	ErrInvalidPhone = errors.New("please enter a valid 10-digit phone number")

	ErrMemberNotFound = errors.New("number not found in the members register")
	ErrLoanNotFound   = errors.New("loan entry not found in the ledger")
)

// ValidationError carries every rule a registration submission violated.
// Nothing is saved when it is returned; the caller renders one combined
// message.
type ValidationError struct {
	Rules []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Rules, "; ")
}
