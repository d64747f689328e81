package domain

import "context"

// Cache is a best-effort side cache. It is never authoritative: a backend
// failure or a malformed stored payload must surface as a miss, not an
// error the caller has to handle.
type Cache interface {
	// Get decodes the value stored under key into dest and returns true on a
	// hit. A missing key, a malformed payload, or a backend failure returns
	// (false, nil); implementations log the latter two.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value under key, overwriting unconditionally.
	Set(ctx context.Context, key string, value any) error
	// Delete removes the given keys. Deleting an absent key is a no-op.
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPattern removes every key matching a glob-style pattern.
	DeleteByPattern(ctx context.Context, pattern string) error
}

// UserDirectory resolves an externally issued principal id to contact
// details for notifications. Identity itself is managed outside this
// service.
type UserDirectory interface {
	// EmailByID returns the email for the principal, or ErrNotFound.
	EmailByID(ctx context.Context, userID string) (string, error)
}

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// InviteNotifier sends best-effort invitation notifications when invitees
// are added to an event. Failures are logged by implementations and must
// never affect the mutation that triggered them.
type InviteNotifier interface {
	NotifyInvited(ctx context.Context, event *Event, inviteeIDs []string)
}
