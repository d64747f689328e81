package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"
)

// Field bounds enforced at the boundary. The service receives
// pre-validated payloads.
const (
	maxNameLen        = 100
	maxDescriptionLen = 1000
	maxUserIDLen      = 36
)

// EventController handles the /events routes.
type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// writeServiceError maps domain errors to the API error envelope.
func (c *EventController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "insufficient privileges")
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.Logger.ErrorContext(r.Context(), "store unavailable", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeServiceUnavailable, "store unavailable")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

func validateUserIDs(field string, ids []string) []string {
	var errs []string
	for _, id := range ids {
		if id == "" {
			errs = append(errs, field+" entries must not be empty")
			break
		}
		if len(id) > maxUserIDLen {
			errs = append(errs, fmt.Sprintf("%s entries must be at most %d characters", field, maxUserIDLen))
			break
		}
	}
	return errs
}

// EventListSuccessResponse is the success envelope for GET /events (200).
type EventListSuccessResponse struct {
	Data  *domain.EventList `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEvents godoc
// @Summary List the caller's events
// @Description Returns the events the authenticated user created (with RSVPs) and the events they are invited to (summary only).
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventListSuccessResponse "data contains created and invited events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	list, err := c.Service.List(r.Context(), userID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// EventSuccessResponse is the success envelope for single-event responses.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetEvent godoc
// @Summary Get an event by id
// @Description Returns the event with its active RSVPs. Only the event owner may read it.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event id (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing event id")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.Get(r.Context(), id, userID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Location    string    `json:"location"`
	Time        time.Time `json:"time"`
	Invitees    []string  `json:"invitees"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	if len(c.Name) > maxNameLen {
		errs = append(errs, fmt.Sprintf("name must be at most %d characters", maxNameLen))
	}
	if c.Description != nil && len(*c.Description) > maxDescriptionLen {
		errs = append(errs, fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
	}
	if c.Location == "" {
		errs = append(errs, "location is required")
	}
	if c.Time.IsZero() {
		errs = append(errs, "time is required")
	}
	errs = append(errs, validateUserIDs("invitees", c.Invitees)...)
	return errs
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event owned by the authenticated user, with one unanswered RSVP row per invitee. The event and its RSVP rows are persisted atomically.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event payload"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := domain.CreateEventParams{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Time:        req.Time,
		Invitees:    req.Invitees,
	}
	event, err := c.Service.Create(r.Context(), params, userID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEventRequest is the request body for PATCH /events/{id}.
// Nil fields are left unchanged.
type UpdateEventRequest struct {
	Name            *string    `json:"name"`
	Description     *string    `json:"description"`
	Location        *string    `json:"location"`
	Time            *time.Time `json:"time"`
	UserIDToAdd     []string   `json:"userIdToAdd"`
	UserIDsToRemove []string   `json:"userIdsToRemove"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Name != nil {
		if *u.Name == "" {
			errs = append(errs, "name must not be empty")
		}
		if len(*u.Name) > maxNameLen {
			errs = append(errs, fmt.Sprintf("name must be at most %d characters", maxNameLen))
		}
	}
	if u.Description != nil && len(*u.Description) > maxDescriptionLen {
		errs = append(errs, fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
	}
	if u.Location != nil && *u.Location == "" {
		errs = append(errs, "location must not be empty")
	}
	errs = append(errs, validateUserIDs("userIdToAdd", u.UserIDToAdd)...)
	errs = append(errs, validateUserIDs("userIdsToRemove", u.UserIDsToRemove)...)
	return errs
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Applies field edits, invitee additions, and RSVP removals in a single transaction. Only the event owner may update.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event id (UUID)"
// @Param event body UpdateEventRequest true "Update payload"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing event id")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := domain.UpdateEventParams{
		Fields: domain.UpdateEventFields{
			Name:        req.Name,
			Description: req.Description,
			Location:    req.Location,
			Time:        req.Time,
		},
		AddInvitees:   req.UserIDToAdd,
		RemoveRSVPIDs: req.UserIDsToRemove,
	}
	event, err := c.Service.Update(r.Context(), id, params, userID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Soft-deletes the event and its RSVP rows. Only the event owner may delete. Idempotent at the store level: a second delete yields 404.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event id (UUID)"
// @Success 204 "no content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing event id")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Remove(r.Context(), id, userID); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EventSummarySuccessResponse is the success envelope for the RSVP update.
type EventSummarySuccessResponse struct {
	Data  *domain.EventSummary `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// UpdateRSVP godoc
// @Summary Answer an invitation
// @Description Sets the caller's RSVP response on the event. Only a principal holding an active RSVP may answer; answers can be changed but not cleared.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event id (UUID)"
// @Param response path string true "RSVP response" Enums(YES, NO, MAYBE)
// @Success 200 {object} controllers.EventSummarySuccessResponse "data contains the event without its RSVP list"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id}/rsvp/{response} [patch]
func (c *EventController) UpdateRSVP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing event id")
		return
	}
	response := domain.RSVPResponse(r.PathValue("response"))
	if !domain.ValidRSVPResponse(response) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "response must be one of YES, NO, MAYBE")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	summary, err := c.Service.UpdateRSVP(r.Context(), id, response, userID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}
