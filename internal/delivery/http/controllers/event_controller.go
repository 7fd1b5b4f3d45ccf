package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"eventsapi/internal/delivery/http/helpers"
	"eventsapi/internal/domain"
)

// EventController handles the /events HTTP surface.
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

// RootResponse is the body of GET / (200).
type RootResponse struct {
	Message string `json:"message"`
}

// Root godoc
// @Summary API root
// @Description Liveness/welcome endpoint.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.RootResponse
// @Router / [get]
func (c *EventController) Root(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, RootResponse{Message: "Events API"})
}

// CreateEventRequest is the request body for POST /events. eventId is
// optional; a missing id is generated server-side. All other fields are
// required.
type CreateEventRequest struct {
	EventID     string `json:"eventId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
	Organizer   string `json:"organizer"`
	Status      string `json:"status"`
}

// Validate implements Validator. Returns error messages for required fields,
// string length bounds, capacity range, date format, and the status enum.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if n := len(c.Title); n < 1 || n > domain.TitleMaxLen {
		errs = append(errs, fmt.Sprintf("title must be between 1 and %d characters", domain.TitleMaxLen))
	}
	if n := len(c.Description); n < 1 || n > domain.DescriptionMaxLen {
		errs = append(errs, fmt.Sprintf("description must be between 1 and %d characters", domain.DescriptionMaxLen))
	}
	if c.Date == "" {
		errs = append(errs, "date is required")
	} else if err := domain.ValidateDate(c.Date); err != nil {
		errs = append(errs, "date must be in ISO format (YYYY-MM-DD)")
	}
	if n := len(c.Location); n < 1 || n > domain.LocationMaxLen {
		errs = append(errs, fmt.Sprintf("location must be between 1 and %d characters", domain.LocationMaxLen))
	}
	if c.Capacity < domain.CapacityMin || c.Capacity > domain.CapacityMax {
		errs = append(errs, fmt.Sprintf("capacity must be between %d and %d", domain.CapacityMin, domain.CapacityMax))
	}
	if n := len(c.Organizer); n < 1 || n > domain.OrganizerMaxLen {
		errs = append(errs, fmt.Sprintf("organizer must be between 1 and %d characters", domain.OrganizerMaxLen))
	}
	if _, err := domain.ParseStatus(c.Status); err != nil {
		errs = append(errs, "status must be one of draft, published, active, cancelled, completed")
	}
	return errs
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create an event. eventId is optional; a random UUID is generated when absent. Creating with an existing eventId silently overwrites the old record.
// @Tags events
// @Accept json
// @Produce json
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} domain.Event "the stored record"
// @Failure 400 {object} helpers.ErrorResponse "error.code: bad_request"
// @Failure 500 {object} helpers.ErrorResponse "error.code: internal_error"
// @Failure 503 {object} helpers.ErrorResponse "error.code: store_unavailable"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := &domain.Event{
		EventID:     req.EventID,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Organizer:   req.Organizer,
		Status:      domain.EventStatus(req.Status),
	}
	created, err := c.Service.CreateEvent(r.Context(), event)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeStoreUnavailable, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, fmt.Sprintf("failed to create event: %v", err))
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, created)
}

// ListEventsResponse is the body of GET /events (200).
type ListEventsResponse struct {
	Events []*domain.Event `json:"events"`
	Count  int             `json:"count"`
}

// ListEvents godoc
// @Summary List events
// @Description Returns every event in the table, optionally filtered. status is an exact case-insensitive match; location and organizer are case-insensitive substring matches. Filters compose with AND.
// @Tags events
// @Produce json
// @Param status query string false "Filter by status (case-insensitive)"
// @Param location query string false "Filter by location (substring, case-insensitive)"
// @Param organizer query string false "Filter by organizer (substring, case-insensitive)"
// @Success 200 {object} controllers.ListEventsResponse
// @Failure 500 {object} helpers.ErrorResponse "error.code: internal_error"
// @Failure 503 {object} helpers.ErrorResponse "error.code: store_unavailable"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter := domain.EventFilter{
		Status:    r.URL.Query().Get("status"),
		Location:  r.URL.Query().Get("location"),
		Organizer: r.URL.Query().Get("organizer"),
	}
	events, err := c.Service.ListEvents(r.Context(), filter)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeStoreUnavailable, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, fmt.Sprintf("failed to list events: %v", err))
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSON(w, http.StatusOK, ListEventsResponse{Events: events, Count: len(events)})
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} domain.Event
// @Failure 400 {object} helpers.ErrorResponse "error.code: bad_request"
// @Failure 404 {object} helpers.ErrorResponse "error.code: not_found"
// @Failure 500 {object} helpers.ErrorResponse "error.code: internal_error"
// @Failure 503 {object} helpers.ErrorResponse "error.code: store_unavailable"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if strings.TrimSpace(eventID) == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "Event ID is required")
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, fmt.Sprintf("Event with ID '%s' not found", eventID))
			return
		}
		if errors.Is(err, domain.ErrStoreUnavailable) {
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeStoreUnavailable, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, fmt.Sprintf("failed to retrieve event: %v", err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, event)
}

// UpdateEventRequest is the request body for PUT /events/{eventID}.
// All fields are optional; omitted fields are unchanged. At least one
// field must be present.
type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Location    *string `json:"location"`
	Capacity    *int    `json:"capacity"`
	Organizer   *string `json:"organizer"`
	Status      *string `json:"status"`
}

// Validate implements Validator. Present fields get the same bounds as
// create; an empty update is rejected.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title == nil && u.Description == nil && u.Date == nil &&
		u.Location == nil && u.Capacity == nil && u.Organizer == nil && u.Status == nil {
		return []string{"no fields to update"}
	}
	if u.Title != nil {
		if n := len(*u.Title); n < 1 || n > domain.TitleMaxLen {
			errs = append(errs, fmt.Sprintf("title must be between 1 and %d characters", domain.TitleMaxLen))
		}
	}
	if u.Description != nil {
		if n := len(*u.Description); n < 1 || n > domain.DescriptionMaxLen {
			errs = append(errs, fmt.Sprintf("description must be between 1 and %d characters", domain.DescriptionMaxLen))
		}
	}
	if u.Date != nil {
		if err := domain.ValidateDate(*u.Date); err != nil {
			errs = append(errs, "date must be in ISO format (YYYY-MM-DD)")
		}
	}
	if u.Location != nil {
		if n := len(*u.Location); n < 1 || n > domain.LocationMaxLen {
			errs = append(errs, fmt.Sprintf("location must be between 1 and %d characters", domain.LocationMaxLen))
		}
	}
	if u.Capacity != nil {
		if *u.Capacity < domain.CapacityMin || *u.Capacity > domain.CapacityMax {
			errs = append(errs, fmt.Sprintf("capacity must be between %d and %d", domain.CapacityMin, domain.CapacityMax))
		}
	}
	if u.Organizer != nil {
		if n := len(*u.Organizer); n < 1 || n > domain.OrganizerMaxLen {
			errs = append(errs, fmt.Sprintf("organizer must be between 1 and %d characters", domain.OrganizerMaxLen))
		}
	}
	if u.Status != nil {
		if _, err := domain.ParseStatus(*u.Status); err != nil {
			errs = append(errs, "status must be one of draft, published, active, cancelled, completed")
		}
	}
	return errs
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partial update: only supplied fields are written, the rest are left untouched. Returns the full record after the merge.
// @Tags events
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update (all optional, at least one required)"
// @Success 200 {object} domain.Event "the full updated record"
// @Failure 400 {object} helpers.ErrorResponse "error.code: bad_request"
// @Failure 404 {object} helpers.ErrorResponse "error.code: not_found"
// @Failure 500 {object} helpers.ErrorResponse "error.code: internal_error"
// @Failure 503 {object} helpers.ErrorResponse "error.code: store_unavailable"
// @Router /events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if strings.TrimSpace(eventID) == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "Event ID is required")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	update := domain.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Organizer:   req.Organizer,
	}
	if req.Status != nil {
		status := domain.EventStatus(*req.Status)
		update.Status = &status
	}
	updated, err := c.Service.UpdateEvent(r.Context(), eventID, update)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, fmt.Sprintf("Event with ID '%s' not found", eventID))
			return
		}
		if errors.Is(err, domain.ErrStoreUnavailable) {
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeStoreUnavailable, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, fmt.Sprintf("failed to update event: %v", err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, updated)
}

// DeleteEventResponse is the body of DELETE /events/{eventID} (200).
type DeleteEventResponse struct {
	Message string `json:"message"`
	EventID string `json:"eventId"`
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.DeleteEventResponse
// @Failure 400 {object} helpers.ErrorResponse "error.code: bad_request"
// @Failure 404 {object} helpers.ErrorResponse "error.code: not_found"
// @Failure 500 {object} helpers.ErrorResponse "error.code: internal_error"
// @Failure 503 {object} helpers.ErrorResponse "error.code: store_unavailable"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if strings.TrimSpace(eventID) == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "Event ID is required")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, fmt.Sprintf("Event with ID '%s' not found", eventID))
			return
		}
		if errors.Is(err, domain.ErrStoreUnavailable) {
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeStoreUnavailable, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, fmt.Sprintf("failed to delete event: %v", err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, DeleteEventResponse{
		Message: "Event deleted successfully",
		EventID: eventID,
	})
}
