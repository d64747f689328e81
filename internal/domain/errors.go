package domain

import "errors"

// Sentinel errors shared across the service. Callers match with errors.Is.
var (
	// ErrNotFound means the target entity is absent or soft-deleted.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the authenticated principal lacks ownership or
	// invitation standing for the requested operation.
	ErrForbidden = errors.New("insufficient privileges")

	// ErrStoreUnavailable means a transaction or connection failure in the
	// durable store. Multi-row mutations roll back fully before it is returned.
	ErrStoreUnavailable = errors.New("store unavailable")
)
