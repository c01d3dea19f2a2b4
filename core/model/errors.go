package model

import "fmt"

// ValidationError rejects a planning request with the offending field named.
// Invalid input is never coerced or silently dropped.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for field with a formatted reason.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ScheduleConflictError reports two fixed-time blocks that cannot both hold.
type ScheduleConflictError struct {
	First  string
	Second string
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("schedule conflict: %q overlaps %q", e.Second, e.First)
}

// SnapshotError signals that upstream data could not be fetched in time.
// Callers should retry; the request itself may be valid.
type SnapshotError struct {
	Source string
	Err    error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot %s unavailable: %v", e.Source, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *SnapshotError) Unwrap() error { return e.Err }
