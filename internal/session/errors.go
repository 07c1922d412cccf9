package session

import (
	"errors"
	"fmt"
)

// ErrNoSession is returned when an operator has no match entry in progress.
var ErrNoSession = errors.New("no match entry in progress")

// ValidationError reports malformed step input. The step is re-prompted and
// the session is left untouched.
type ValidationError struct {
	State  State
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input for %s: %s", e.State, e.Reason)
}

// LookupError reports a team or tournament that could not be used. The step
// is re-prompted and the session is left untouched.
type LookupError struct {
	State  State
	Kind   string
	Key    string
	Reason string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Kind, e.Key, e.Reason)
}

// DuplicateTeamError is returned when the second team tag names the first team.
type DuplicateTeamError struct {
	Tag string
}

func (e *DuplicateTeamError) Error() string {
	return fmt.Sprintf("team %q is already the first team", e.Tag)
}

// StoreError wraps a storage failure. It is fatal: the session is discarded.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsRecoverable reports whether err only requires the operator to retry the
// current step.
func IsRecoverable(err error) bool {
	var (
		validation *ValidationError
		lookup     *LookupError
		duplicate  *DuplicateTeamError
	)
	return errors.As(err, &validation) || errors.As(err, &lookup) || errors.As(err, &duplicate)
}

// rejectReason labels a recoverable error for metrics.
func rejectReason(err error) string {
	var (
		lookup    *LookupError
		duplicate *DuplicateTeamError
	)
	switch {
	case errors.As(err, &lookup):
		return "lookup"
	case errors.As(err, &duplicate):
		return "duplicate_team"
	default:
		return "validation"
	}
}
