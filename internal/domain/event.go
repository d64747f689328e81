package domain

import (
	"context"
	"time"
)

// RSVPResponse is an invitee's answer to an invitation.
type RSVPResponse string

// Allowed RSVP responses.
const (
	ResponseYes   RSVPResponse = "YES"
	ResponseNo    RSVPResponse = "NO"
	ResponseMaybe RSVPResponse = "MAYBE"
)

// ValidRSVPResponse reports whether r is one of YES, NO, MAYBE.
func ValidRSVPResponse(r RSVPResponse) bool {
	switch r {
	case ResponseYes, ResponseNo, ResponseMaybe:
		return true
	}
	return false
}

// RSVP is an invited principal's response record tied to one event.
// Response is nil until the invitee answers; an answered RSVP can be
// re-answered but never reset to nil.
// swagger:model RSVP
type RSVP struct {
	ID       string        `json:"id"`
	EventID  string        `json:"eventId"`
	UserID   string        `json:"userId"`
	Response *RSVPResponse `json:"response"`
}

// Event represents an event with its active RSVP rows.
// OwnerID is immutable after creation. Time is serialized as RFC 3339.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Location    string    `json:"location"`
	Time        time.Time `json:"time"`
	OwnerID     string    `json:"userId"`
	RSVPs       []*RSVP   `json:"rsvps"`
}

// EventSummary is an event view without its RSVP list, used for the
// invited-events list and the RSVP-update response.
// swagger:model EventSummary
type EventSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Location    string    `json:"location"`
	Time        time.Time `json:"time"`
	OwnerID     string    `json:"userId"`
}

// Summary returns the event without its RSVP list.
func (e *Event) Summary() *EventSummary {
	return &EventSummary{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Location:    e.Location,
		Time:        e.Time,
		OwnerID:     e.OwnerID,
	}
}

// FindRSVPByUser returns the active RSVP row held by userID, or nil.
func (e *Event) FindRSVPByUser(userID string) *RSVP {
	for _, r := range e.RSVPs {
		if r.UserID == userID {
			return r
		}
	}
	return nil
}

// EventList is a user's aggregated view: events they created (with RSVPs)
// and events they are invited to (summary only).
// swagger:model EventList
type EventList struct {
	Created []*Event        `json:"created"`
	Invited []*EventSummary `json:"invited"`
}

// CreateEventParams is the pre-validated payload for creating an event.
type CreateEventParams struct {
	Name        string
	Description *string
	Location    string
	Time        time.Time
	Invitees    []string
}

// UpdateEventFields holds field edits for an event. Nil means unchanged.
type UpdateEventFields struct {
	Name        *string
	Description *string
	Location    *string
	Time        *time.Time
}

// UpdateEventParams is the pre-validated payload for updating an event:
// field edits plus invitee additions and RSVP-row removals.
type UpdateEventParams struct {
	Fields        UpdateEventFields
	AddInvitees   []string
	RemoveRSVPIDs []string
}

// EventRepository defines durable storage for events and their RSVP rows.
// Every read filters soft-deleted rows. Multi-row mutations are atomic:
// a mid-transaction failure leaves no partial effect.
type EventRepository interface {
	// GetByID returns the active event with its active RSVPs, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*Event, error)
	// ListByOwnerID returns the active events owned by ownerID, with RSVPs.
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	// ListInvited returns active events where userID holds an active RSVP,
	// excluding events userID owns. Summary fields only.
	ListInvited(ctx context.Context, userID string) ([]*EventSummary, error)
	// CreateWithInvitees inserts the event row and one unanswered RSVP row
	// per invitee in a single transaction.
	CreateWithInvitees(ctx context.Context, event *Event, invitees []string) (*Event, error)
	// Update applies, in one transaction: soft-deletion of the RSVP rows in
	// removeRSVPIDs (scoped to the event), insertion of unanswered RSVP rows
	// for addInvitees, and the given field edits. Returns the updated event.
	Update(ctx context.Context, id string, fields UpdateEventFields, addInvitees, removeRSVPIDs []string) (*Event, error)
	// SoftDelete marks the event row and its active RSVP rows deleted in a
	// single transaction.
	SoftDelete(ctx context.Context, id string) error
	// SetRSVPResponse sets the response on a single active RSVP row.
	SetRSVPResponse(ctx context.Context, rsvpID string, response RSVPResponse) error
}

// EventService defines the event/RSVP operations exposed to the delivery
// layer. userID is the externally authenticated principal.
type EventService interface {
	List(ctx context.Context, userID string) (*EventList, error)
	Get(ctx context.Context, id, userID string) (*Event, error)
	Create(ctx context.Context, params CreateEventParams, userID string) (*Event, error)
	Update(ctx context.Context, id string, params UpdateEventParams, userID string) (*Event, error)
	Remove(ctx context.Context, id, userID string) error
	UpdateRSVP(ctx context.Context, id string, response RSVPResponse, userID string) (*EventSummary, error)
}
