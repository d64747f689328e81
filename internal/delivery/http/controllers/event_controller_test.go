package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"
)

// testLogger is a no-op logger so tests don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	listResult    *domain.EventList
	listErr       error
	getResult     *domain.Event
	getErr        error
	createResult  *domain.Event
	createErr     error
	updateResult  *domain.Event
	updateErr     error
	removeErr     error
	rsvpResult    *domain.EventSummary
	rsvpErr       error
	lastEventID   string
	lastUserID    string
	lastCreate    domain.CreateEventParams
	lastUpdate    domain.UpdateEventParams
	lastResponse  domain.RSVPResponse
}

func (f *fakeEventService) List(_ context.Context, userID string) (*domain.EventList, error) {
	f.lastUserID = userID
	return f.listResult, f.listErr
}

func (f *fakeEventService) Get(_ context.Context, id, userID string) (*domain.Event, error) {
	f.lastEventID, f.lastUserID = id, userID
	return f.getResult, f.getErr
}

func (f *fakeEventService) Create(_ context.Context, params domain.CreateEventParams, userID string) (*domain.Event, error) {
	f.lastCreate, f.lastUserID = params, userID
	return f.createResult, f.createErr
}

func (f *fakeEventService) Update(_ context.Context, id string, params domain.UpdateEventParams, userID string) (*domain.Event, error) {
	f.lastEventID, f.lastUpdate, f.lastUserID = id, params, userID
	return f.updateResult, f.updateErr
}

func (f *fakeEventService) Remove(_ context.Context, id, userID string) error {
	f.lastEventID, f.lastUserID = id, userID
	return f.removeErr
}

func (f *fakeEventService) UpdateRSVP(_ context.Context, id string, response domain.RSVPResponse, userID string) (*domain.EventSummary, error) {
	f.lastEventID, f.lastResponse, f.lastUserID = id, response, userID
	return f.rsvpResult, f.rsvpErr
}

func testEvent() *domain.Event {
	return &domain.Event{
		ID:       "ev-1",
		Name:     "Standup",
		Location: "HQ",
		Time:     time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		OwnerID:  "u1",
		RSVPs:    []*domain.RSVP{},
	}
}

func authedRequest(method, target string, body io.Reader, userID string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if userID != "" {
		req = req.WithContext(middleware.SetUserID(req.Context(), userID))
	}
	return req
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var resp helpers.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestEventController_ListEvents(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		svc        *fakeEventService
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			userID:     "u1",
			svc:        &fakeEventService{listResult: &domain.EventList{Created: []*domain.Event{testEvent()}, Invited: []*domain.EventSummary{}}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unauthenticated",
			userID:     "",
			svc:        &fakeEventService{},
			wantStatus: http.StatusUnauthorized,
			wantCode:   helpers.ErrCodeUnauthorized,
		},
		{
			name:       "store unavailable",
			userID:     "u1",
			svc:        &fakeEventService{listErr: fmt.Errorf("list owned events: %w", domain.ErrStoreUnavailable)},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   helpers.ErrCodeServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, tt.svc)
			rec := httptest.NewRecorder()
			ctrl.ListEvents(rec, authedRequest(http.MethodGet, "/events", nil, tt.userID))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				resp := decodeEnvelope(t, rec)
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantCode, resp.Error.Code)
			}
		})
	}
}

func TestEventController_GetEvent(t *testing.T) {
	tests := []struct {
		name       string
		svc        *fakeEventService
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			svc:        &fakeEventService{getResult: testEvent()},
			wantStatus: http.StatusOK,
		},
		{
			name:       "not found",
			svc:        &fakeEventService{getErr: domain.ErrNotFound},
			wantStatus: http.StatusNotFound,
			wantCode:   helpers.ErrCodeNotFound,
		},
		{
			name:       "forbidden",
			svc:        &fakeEventService{getErr: domain.ErrForbidden},
			wantStatus: http.StatusForbidden,
			wantCode:   helpers.ErrCodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, tt.svc)
			req := authedRequest(http.MethodGet, "/events/ev-1", nil, "u1")
			req.SetPathValue("id", "ev-1")
			rec := httptest.NewRecorder()
			ctrl.GetEvent(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "ev-1", tt.svc.lastEventID)
			assert.Equal(t, "u1", tt.svc.lastUserID)
			if tt.wantCode != "" {
				resp := decodeEnvelope(t, rec)
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantCode, resp.Error.Code)
			}
		})
	}
}

func TestEventController_CreateEvent(t *testing.T) {
	validBody := `{"name":"Standup","description":"daily","location":"HQ","time":"2026-03-14T10:00:00Z","invitees":["u2","u3"]}`

	tests := []struct {
		name       string
		body       string
		svc        *fakeEventService
		wantStatus int
	}{
		{
			name:       "success",
			body:       validBody,
			svc:        &fakeEventService{createResult: testEvent()},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing name",
			body:       `{"location":"HQ","time":"2026-03-14T10:00:00Z"}`,
			svc:        &fakeEventService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "name too long",
			body:       fmt.Sprintf(`{"name":%q,"location":"HQ","time":"2026-03-14T10:00:00Z"}`, strings.Repeat("x", 101)),
			svc:        &fakeEventService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invitee id too long",
			body:       fmt.Sprintf(`{"name":"Standup","location":"HQ","time":"2026-03-14T10:00:00Z","invitees":[%q]}`, strings.Repeat("x", 37)),
			svc:        &fakeEventService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field rejected",
			body:       `{"name":"Standup","location":"HQ","time":"2026-03-14T10:00:00Z","bogus":1}`,
			svc:        &fakeEventService{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, tt.svc)
			rec := httptest.NewRecorder()
			ctrl.CreateEvent(rec, authedRequest(http.MethodPost, "/events", bytes.NewBufferString(tt.body), "u1"))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "Standup", tt.svc.lastCreate.Name)
				assert.Equal(t, []string{"u2", "u3"}, tt.svc.lastCreate.Invitees)
				assert.Equal(t, "u1", tt.svc.lastUserID)
			}
		})
	}
}

func TestEventController_UpdateEvent(t *testing.T) {
	t.Run("success maps payload", func(t *testing.T) {
		svc := &fakeEventService{updateResult: testEvent()}
		ctrl := NewEventController(testLogger, svc)
		body := `{"name":"Retro","userIdToAdd":["u4"],"userIdsToRemove":["r-1"]}`
		req := authedRequest(http.MethodPatch, "/events/ev-1", bytes.NewBufferString(body), "u1")
		req.SetPathValue("id", "ev-1")
		rec := httptest.NewRecorder()
		ctrl.UpdateEvent(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.lastUpdate.Fields.Name)
		assert.Equal(t, "Retro", *svc.lastUpdate.Fields.Name)
		assert.Equal(t, []string{"u4"}, svc.lastUpdate.AddInvitees)
		assert.Equal(t, []string{"r-1"}, svc.lastUpdate.RemoveRSVPIDs)
	})

	t.Run("forbidden", func(t *testing.T) {
		svc := &fakeEventService{updateErr: domain.ErrForbidden}
		ctrl := NewEventController(testLogger, svc)
		req := authedRequest(http.MethodPatch, "/events/ev-1", bytes.NewBufferString(`{}`), "u2")
		req.SetPathValue("id", "ev-1")
		rec := httptest.NewRecorder()
		ctrl.UpdateEvent(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestEventController_DeleteEvent(t *testing.T) {
	t.Run("success returns no content", func(t *testing.T) {
		svc := &fakeEventService{}
		ctrl := NewEventController(testLogger, svc)
		req := authedRequest(http.MethodDelete, "/events/ev-1", nil, "u1")
		req.SetPathValue("id", "ev-1")
		rec := httptest.NewRecorder()
		ctrl.DeleteEvent(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.Bytes())
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeEventService{removeErr: domain.ErrNotFound}
		ctrl := NewEventController(testLogger, svc)
		req := authedRequest(http.MethodDelete, "/events/ev-1", nil, "u1")
		req.SetPathValue("id", "ev-1")
		rec := httptest.NewRecorder()
		ctrl.DeleteEvent(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEventController_UpdateRSVP(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		svc        *fakeEventService
		wantStatus int
	}{
		{
			name:       "success",
			response:   "YES",
			svc:        &fakeEventService{rsvpResult: testEvent().Summary()},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid response",
			response:   "PERHAPS",
			svc:        &fakeEventService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not an invitee",
			response:   "NO",
			svc:        &fakeEventService{rsvpErr: domain.ErrForbidden},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, tt.svc)
			req := authedRequest(http.MethodPatch, "/events/ev-1/rsvp/"+tt.response, nil, "u2")
			req.SetPathValue("id", "ev-1")
			req.SetPathValue("response", tt.response)
			rec := httptest.NewRecorder()
			ctrl.UpdateRSVP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, domain.ResponseYes, tt.svc.lastResponse)
				assert.Equal(t, "u2", tt.svc.lastUserID)
			}
		})
	}
}
