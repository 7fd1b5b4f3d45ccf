package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventsapi/internal/delivery/http/helpers"
	"eventsapi/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createErr    error
	listErr      error
	getErr       error
	updateErr    error
	deleteErr    error
	listResult   []*domain.Event
	getResult    *domain.Event
	updateResult *domain.Event

	lastCreated    *domain.Event
	lastListFilter domain.EventFilter
	lastGetID      string
	lastUpdateID   string
	lastUpdate     domain.EventUpdate
	lastDeleteID   string
}

func (f *fakeEventService) CreateEvent(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	f.lastCreated = event
	if f.createErr != nil {
		return nil, f.createErr
	}
	if event.EventID == "" {
		event.EventID = "generated-id"
	}
	return event, nil
}

func (f *fakeEventService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	f.lastListFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResult, nil
}

func (f *fakeEventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	f.lastGetID = eventID
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getResult, nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, eventID string, update domain.EventUpdate) (*domain.Event, error) {
	f.lastUpdateID = eventID
	f.lastUpdate = update
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateResult, nil
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, eventID string) error {
	f.lastDeleteID = eventID
	return f.deleteErr
}

func storedEvent() *domain.Event {
	return &domain.Event{
		EventID:     "ev-1",
		Title:       "Meetup",
		Description: "desc",
		Date:        "2025-01-01",
		Location:    "NYC",
		Capacity:    50,
		Organizer:   "Alice",
		Status:      domain.StatusDraft,
	}
}

func decodeError(t *testing.T, body *bytes.Buffer) *helpers.APIError {
	t.Helper()
	var resp helpers.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestEventController_Root(t *testing.T) {
	ctrl := NewEventController(testLogger, &fakeEventService{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	ctrl.Root(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Events API"}`, rr.Body.String())
}

func TestEventController_CreateEvent(t *testing.T) {
	validBody := `{"title":"Meetup","description":"desc","date":"2025-01-01","location":"NYC","capacity":50,"organizer":"Alice","status":"draft"}`

	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success with generated id",
			body:       validBody,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "success with explicit id",
			body:       `{"eventId":"custom","title":"Meetup","description":"desc","date":"2025-01-01","location":"NYC","capacity":50,"organizer":"Alice","status":"draft"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "bad request invalid json",
			body:           `{invalid`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid",
		},
		{
			name:           "missing title",
			body:           `{"description":"desc","date":"2025-01-01","location":"NYC","capacity":50,"organizer":"Alice","status":"draft"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "title must be between 1 and 200 characters",
		},
		{
			name:           "capacity zero rejected",
			body:           `{"title":"Meetup","description":"desc","date":"2025-01-01","location":"NYC","capacity":0,"organizer":"Alice","status":"draft"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "capacity must be between 1 and 100000",
		},
		{
			name:           "capacity above maximum rejected",
			body:           `{"title":"Meetup","description":"desc","date":"2025-01-01","location":"NYC","capacity":100001,"organizer":"Alice","status":"draft"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "capacity must be between 1 and 100000",
		},
		{
			name:       "capacity at lower boundary accepted",
			body:       `{"title":"Meetup","description":"desc","date":"2025-01-01","location":"NYC","capacity":1,"organizer":"Alice","status":"draft"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "capacity at upper boundary accepted",
			body:       `{"title":"Meetup","description":"desc","date":"2025-01-01","location":"NYC","capacity":100000,"organizer":"Alice","status":"draft"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "invalid date",
			body:           `{"title":"Meetup","description":"desc","date":"not-a-date","location":"NYC","capacity":50,"organizer":"Alice","status":"draft"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "date must be in ISO format",
		},
		{
			name:           "invalid status",
			body:           `{"title":"Meetup","description":"desc","date":"2025-01-01","location":"NYC","capacity":50,"organizer":"Alice","status":"archived"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "status must be one of",
		},
		{
			name:           "store unavailable",
			body:           validBody,
			fakeErr:        domain.ErrStoreUnavailable,
			wantStatus:     http.StatusServiceUnavailable,
			wantBodySubstr: "store unavailable",
		},
		{
			name:           "internal error",
			body:           validBody,
			fakeErr:        errors.New("throttled"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "failed to create event",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{createErr: tt.fakeErr}
			ctrl := NewEventController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.CreateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantStatus == http.StatusCreated {
				var event domain.Event
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&event))
				assert.NotEmpty(t, event.EventID, "created record must carry the resolved eventId")
				return
			}
			apiErr := decodeError(t, rr.Body)
			assert.Contains(t, apiErr.Message, tt.wantBodySubstr)
		})
	}

	t.Run("validation happens before any store call", func(t *testing.T) {
		fake := &fakeEventService{}
		ctrl := NewEventController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(`{"title":""}`))
		rr := httptest.NewRecorder()

		ctrl.CreateEvent(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Nil(t, fake.lastCreated, "service must not be reached on validation failure")
	})
}

func TestEventController_ListEvents(t *testing.T) {
	t.Run("returns events and count", func(t *testing.T) {
		fake := &fakeEventService{listResult: []*domain.Event{storedEvent()}}
		ctrl := NewEventController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "/events?status=draft&location=ny&organizer=ali", nil)
		rr := httptest.NewRecorder()

		ctrl.ListEvents(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp ListEventsResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, 1, resp.Count)
		require.Len(t, resp.Events, 1)
		assert.Equal(t, "ev-1", resp.Events[0].EventID)
		assert.Equal(t, domain.EventFilter{Status: "draft", Location: "ny", Organizer: "ali"}, fake.lastListFilter)
	})

	t.Run("empty table yields empty list, not null", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		rr := httptest.NewRecorder()

		ctrl.ListEvents(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"events":[],"count":0}`, rr.Body.String())
	})

	t.Run("store unavailable", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{listErr: domain.ErrStoreUnavailable})
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		rr := httptest.NewRecorder()

		ctrl.ListEvents(rr, req)

		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, helpers.ErrCodeStoreUnavailable, decodeError(t, rr.Body).Code)
	})

	t.Run("internal error", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{listErr: errors.New("boom")})
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		rr := httptest.NewRecorder()

		ctrl.ListEvents(rr, req)

		require.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func newPathRequest(method, path, eventID, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	r.SetPathValue("eventID", eventID)
	return r
}

func TestEventController_GetEvent(t *testing.T) {
	tests := []struct {
		name       string
		eventID    string
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{"success", "ev-1", nil, http.StatusOK, ""},
		{"whitespace id", "  ", nil, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"not found", "missing", domain.ErrNotFound, http.StatusNotFound, helpers.ErrCodeNotFound},
		{"store unavailable", "ev-1", domain.ErrStoreUnavailable, http.StatusServiceUnavailable, helpers.ErrCodeStoreUnavailable},
		{"internal error", "ev-1", errors.New("boom"), http.StatusInternalServerError, helpers.ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{getErr: tt.fakeErr, getResult: storedEvent()}
			ctrl := NewEventController(testLogger, fake)
			req := newPathRequest(http.MethodGet, "/events/x", tt.eventID, "")
			rr := httptest.NewRecorder()

			ctrl.GetEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				var event domain.Event
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&event))
				assert.Equal(t, *storedEvent(), event)
				return
			}
			assert.Equal(t, tt.wantCode, decodeError(t, rr.Body).Code)
		})
	}
}

func TestEventController_UpdateEvent(t *testing.T) {
	updated := storedEvent()
	updated.Status = domain.StatusActive

	tests := []struct {
		name           string
		eventID        string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			eventID:    "ev-1",
			body:       `{"status":"active"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:           "whitespace id",
			eventID:        " ",
			body:           `{"status":"active"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "Event ID is required",
		},
		{
			name:           "empty body rejected",
			eventID:        "ev-1",
			body:           `{}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "no fields to update",
		},
		{
			name:           "present field validated with create bounds",
			eventID:        "ev-1",
			body:           `{"capacity":100001}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "capacity must be between 1 and 100000",
		},
		{
			name:           "invalid status value",
			eventID:        "ev-1",
			body:           `{"status":"gone"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "status must be one of",
		},
		{
			name:           "not found",
			eventID:        "missing",
			body:           `{"status":"active"}`,
			fakeErr:        domain.ErrNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "not found",
		},
		{
			name:           "store unavailable",
			eventID:        "ev-1",
			body:           `{"status":"active"}`,
			fakeErr:        domain.ErrStoreUnavailable,
			wantStatus:     http.StatusServiceUnavailable,
			wantBodySubstr: "store unavailable",
		},
		{
			name:           "internal error",
			eventID:        "ev-1",
			body:           `{"status":"active"}`,
			fakeErr:        errors.New("boom"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "failed to update event",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{updateErr: tt.fakeErr, updateResult: updated}
			ctrl := NewEventController(testLogger, fake)
			req := newPathRequest(http.MethodPut, "/events/x", tt.eventID, tt.body)
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.UpdateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				var event domain.Event
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&event))
				assert.Equal(t, *updated, event, "response must carry all attributes post-merge")
				require.NotNil(t, fake.lastUpdate.Status)
				assert.Equal(t, domain.StatusActive, *fake.lastUpdate.Status)
				assert.Nil(t, fake.lastUpdate.Title, "omitted fields must not be passed to the service")
				return
			}
			apiErr := decodeError(t, rr.Body)
			assert.Contains(t, apiErr.Message, tt.wantBodySubstr)
		})
	}
}

func TestEventController_DeleteEvent(t *testing.T) {
	tests := []struct {
		name       string
		eventID    string
		fakeErr    error
		wantStatus int
	}{
		{"success", "ev-1", nil, http.StatusOK},
		{"whitespace id", "  ", nil, http.StatusBadRequest},
		{"not found", "missing", domain.ErrNotFound, http.StatusNotFound},
		{"store unavailable", "ev-1", domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"internal error", "ev-1", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{deleteErr: tt.fakeErr}
			ctrl := NewEventController(testLogger, fake)
			req := newPathRequest(http.MethodDelete, "/events/x", tt.eventID, "")
			rr := httptest.NewRecorder()

			ctrl.DeleteEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"message":"Event deleted successfully","eventId":"ev-1"}`, rr.Body.String())
				assert.Equal(t, "ev-1", fake.lastDeleteID)
			}
		})
	}
}
