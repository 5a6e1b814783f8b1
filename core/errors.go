// Package core provides the user-record data model and shared types for the
// strata cohort analytics framework.
package core

import "errors"

// Sentinel errors for cohort operations.
var (
	ErrCohortNotFound = errors.New("cohort not found")
	ErrInvalidImport  = errors.New("invalid cohort import file")
)
