// Package fault defines the error taxonomy shared across the relay:
// transient backend failures, explicit business-rule rejections, fatal
// reconciliation inconsistencies, and aggregate rebuild failures.
package fault

import (
	"errors"
	"fmt"
)

// Transient is a network or timeout failure while calling the backend.
// The core never retries these itself; retrying is the caller's decision.
type Transient struct {
	Op  string
	Err error
}

func (e *Transient) Error() string {
	return fmt.Sprintf("transient backend failure during %s: %v", e.Op, e.Err)
}

func (e *Transient) Unwrap() error { return e.Err }

// IsTransient reports whether err is a transient backend failure
func IsTransient(err error) bool {
	var t *Transient
	return errors.As(err, &t)
}

// Rejection is an explicit refusal of a submitted command by the backend,
// e.g. "already voted" or "not registered"
type Rejection struct {
	Op     string
	Reason string
}

func (e *Rejection) Error() string {
	return fmt.Sprintf("%s rejected by backend: %s", e.Op, e.Reason)
}

// IsRejection reports whether err is a business-rule rejection
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

// Inconsistency is a fatal reconciliation gap: an event contradicts state
// the backend is supposed to guarantee, e.g. a duplicate flight key
type Inconsistency struct {
	Event  string
	Detail string
}

func (e *Inconsistency) Error() string {
	return fmt.Sprintf("inconsistent %s event: %s", e.Event, e.Detail)
}

// RebuildFailure is the single aggregate error surfaced when a full state
// rebuild fails; the partial state it produced is discarded, never exposed
type RebuildFailure struct {
	Err error
}

func (e *RebuildFailure) Error() string {
	return fmt.Sprintf("state rebuild failed: %v", e.Err)
}

func (e *RebuildFailure) Unwrap() error { return e.Err }
