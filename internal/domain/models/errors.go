package models

import (
	"fmt"
	"time"
)

// ValidationError reports an input that breaks a record invariant. It is
// always surfaced to the caller, never silently corrected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StaleDataWarning marks inputs that are valid but outside the freshness
// tolerance. Models downgrade confidence instead of failing when they see it.
type StaleDataWarning struct {
	Field     string
	Age       time.Duration
	Tolerance time.Duration
}

func (e *StaleDataWarning) Error() string {
	return fmt.Sprintf("stale %s: age %s exceeds tolerance %s", e.Field, e.Age, e.Tolerance)
}

// InsufficientDataError reports that a model lacks enough observations or
// peer entities to produce a result. In batch evaluation it skips the entity
// rather than failing the whole batch.
type InsufficientDataError struct {
	Model string
	Need  int
	Got   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data, need %d got %d", e.Model, e.Need, e.Got)
}

// EntityError pairs a failed entity with its error so batch results can
// report failures alongside successes.
type EntityError struct {
	Entity string `json:"entity"`
	Err    error  `json:"-"`
}

func (e EntityError) Error() string {
	return fmt.Sprintf("%s: %v", e.Entity, e.Err)
}

// Reason returns the underlying error message for serialization.
func (e EntityError) Reason() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}
