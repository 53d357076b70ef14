package rdbms

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineUnavailable means the remote engine could not be reached at all.
	ErrEngineUnavailable = errors.New("storage engine unavailable")

	// ErrTimeout means the request to the remote engine exceeded its deadline.
	// Callers may retry once; the domain layer never retries automatically.
	ErrTimeout = errors.New("storage engine timeout")

	// ErrConstraint means the engine rejected a statement for violating a
	// uniqueness or integrity constraint.
	ErrConstraint = errors.New("constraint violation")
)

// EngineError is a structured failure reported by the remote engine itself
// (the statement reached the engine and was rejected).
type EngineError struct {
	Query   string
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine rejected statement: %s", e.Message)
}

// PartialApplyError reports a batch whose first statements committed before a
// later one failed. The engine offers no multi-statement atomicity, so the
// gateway surfaces the inconsistency instead of hiding it.
type PartialApplyError struct {
	Applied int
	Total   int
	Err     error
}

func (e *PartialApplyError) Error() string {
	return fmt.Sprintf("batch partially applied: %d/%d statements committed before failure: %v",
		e.Applied, e.Total, e.Err)
}

func (e *PartialApplyError) Unwrap() error { return e.Err }
