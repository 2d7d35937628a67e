package store

import "errors"

// Sentinel errors shared by all store backends. Services translate these
// into domain errors at the operation boundary; no backend-specific error
// type escapes the store package.
var (
	// ErrNotFound is returned when an entity is absent from the store.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned on a name or slug uniqueness violation.
	ErrAlreadyExists = errors.New("already exists")
	// ErrTxnFailed is returned when a multi-document write unit failed to
	// commit. Every change in the unit has been rolled back.
	ErrTxnFailed = errors.New("transaction failed")
)
