package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the domain layer.
var (
	ErrInvalidInput       = errors.New("domain: invalid input")
	ErrNotFound           = errors.New("domain: not found")
	ErrDuplicateName      = errors.New("domain: organization name already taken")
	ErrCollectionExists   = errors.New("domain: tenant collection already exists")
	ErrCollectionNotFound = errors.New("domain: tenant collection not found")
	ErrUnauthorized       = errors.New("domain: unauthorized")
	ErrForbidden          = errors.New("domain: forbidden")
	ErrStoreUnavailable   = errors.New("domain: store unavailable")
)

// ErrPartialFailure marks errors from multi-step operations that failed after
// some sub-steps already committed. Match with errors.Is; inspect the
// *PartialFailureError via errors.As for repair details.
var ErrPartialFailure = errors.New("domain: partial failure")

// PartialFailureError reports a lifecycle operation that failed after earlier
// sub-steps committed to a backing store. Completed lists the sub-steps that
// succeeded, in execution order. CompensationErr is non-nil when a
// best-effort compensating action also failed and manual cleanup is required.
type PartialFailureError struct {
	Op              string
	Completed       []string
	Err             error
	CompensationErr error
}

func (e *PartialFailureError) Error() string {
	msg := fmt.Sprintf("%s: %v (completed: %s)", e.Op, e.Err, strings.Join(e.Completed, ", "))
	if e.CompensationErr != nil {
		msg += fmt.Sprintf("; compensation failed, manual cleanup required: %v", e.CompensationErr)
	}
	return msg
}

func (e *PartialFailureError) Unwrap() []error {
	return []error{ErrPartialFailure, e.Err}
}
