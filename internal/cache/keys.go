// Package cache defines the cache key namespace for event/RSVP views.
// Keys are derived deterministically from entity identity; no other key
// shape may be used for these entities.
package cache

// Key namespaces. event:<id> holds a single event-with-RSVPs view,
// events:<userId> holds a user's aggregated list view.
const (
	eventPrefix      = "event:"
	userEventsPrefix = "events:"
)

// EventKey returns the cache key for a single event view.
func EventKey(eventID string) string {
	return eventPrefix + eventID
}

// UserEventsKey returns the cache key for a user's list view (created +
// invited events).
func UserEventsKey(userID string) string {
	return userEventsPrefix + userID
}

// UserEventsPattern matches every user's list view, for bulk invalidation.
func UserEventsPattern() string {
	return userEventsPrefix + "*"
}
