package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for the event store and service. Controllers map these to
// HTTP status codes with errors.Is.
var (
	// ErrNotFound is returned when no event exists for the given id.
	ErrNotFound = errors.New("event not found")
	// ErrInvalidInput is returned when request data is malformed, missing, or out of range.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStoreUnavailable is returned when the backing table does not exist or is unreachable.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// EventStatus is the lifecycle status of an event.
type EventStatus string

// Valid event status values.
const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusActive    EventStatus = "active"
	StatusCancelled EventStatus = "cancelled"
	StatusCompleted EventStatus = "completed"
)

// AllStatuses lists every valid EventStatus, in declaration order.
var AllStatuses = []EventStatus{StatusDraft, StatusPublished, StatusActive, StatusCancelled, StatusCompleted}

// ParseStatus converts a raw string into an EventStatus.
// The match is exact; returns ErrInvalidInput for anything else.
func ParseStatus(raw string) (EventStatus, error) {
	s := EventStatus(raw)
	for _, v := range AllStatuses {
		if s == v {
			return s, nil
		}
	}
	return "", fmt.Errorf("status must be one of %s: %w", statusList(), ErrInvalidInput)
}

// IsValid reports whether s is one of the allowed status values.
func (s EventStatus) IsValid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

func (s EventStatus) String() string { return string(s) }

func statusList() string {
	parts := make([]string, len(AllStatuses))
	for i, v := range AllStatuses {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// Field bounds enforced on create and on any updated field.
const (
	TitleMaxLen       = 200
	DescriptionMaxLen = 2000
	LocationMaxLen    = 500
	OrganizerMaxLen   = 200
	CapacityMin       = 1
	CapacityMax       = 100000
)

// dateLayouts are the accepted ISO-8601 shapes for the date field.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ValidateDate reports whether raw parses as an ISO-8601 calendar date or datetime.
func ValidateDate(raw string) error {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, raw); err == nil {
			return nil
		}
	}
	return fmt.Errorf("date must be in ISO format (YYYY-MM-DD): %w", ErrInvalidInput)
}

// Event is a single event record as stored in the events table.
// eventId is the primary key and is immutable after creation.
type Event struct {
	EventID     string      `json:"eventId" dynamodbav:"eventId"`
	Title       string      `json:"title" dynamodbav:"title"`
	Description string      `json:"description" dynamodbav:"description"`
	Date        string      `json:"date" dynamodbav:"date"`
	Location    string      `json:"location" dynamodbav:"location"`
	Capacity    int         `json:"capacity" dynamodbav:"capacity"`
	Organizer   string      `json:"organizer" dynamodbav:"organizer"`
	Status      EventStatus `json:"status" dynamodbav:"status"`
}

// EventUpdate carries a partial update. Nil fields are left untouched.
type EventUpdate struct {
	Title       *string
	Description *string
	Date        *string
	Location    *string
	Capacity    *int
	Organizer   *string
	Status      *EventStatus
}

// HasFields reports whether at least one field is set.
func (u EventUpdate) HasFields() bool {
	return u.Title != nil || u.Description != nil || u.Date != nil ||
		u.Location != nil || u.Capacity != nil || u.Organizer != nil || u.Status != nil
}

// Fields returns the set attributes keyed by their stored attribute name.
// Status is normalized to its underlying string value.
func (u EventUpdate) Fields() map[string]any {
	fields := make(map[string]any)
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.Date != nil {
		fields["date"] = *u.Date
	}
	if u.Location != nil {
		fields["location"] = *u.Location
	}
	if u.Capacity != nil {
		fields["capacity"] = *u.Capacity
	}
	if u.Organizer != nil {
		fields["organizer"] = *u.Organizer
	}
	if u.Status != nil {
		fields["status"] = u.Status.String()
	}
	return fields
}

// EventFilter holds the optional list filters. Empty values are no-ops.
// Status matches exactly (case-insensitive); Location and Organizer are
// case-insensitive substring matches. Filters compose with AND.
type EventFilter struct {
	Status    string
	Location  string
	Organizer string
}

// Matches reports whether e passes every set filter.
func (f EventFilter) Matches(e *Event) bool {
	if f.Status != "" && !strings.EqualFold(string(e.Status), f.Status) {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(e.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.Organizer != "" && !strings.Contains(strings.ToLower(e.Organizer), strings.ToLower(f.Organizer)) {
		return false
	}
	return true
}

// EventRepository defines the interface for event storage.
// Put overwrites any existing record with the same eventId.
type EventRepository interface {
	Put(ctx context.Context, event *Event) error
	Get(ctx context.Context, eventID string) (*Event, error)
	Scan(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, eventID string, fields map[string]any) (*Event, error)
	Delete(ctx context.Context, eventID string) error
}

// EventService defines the application operations over events.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]*Event, error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	UpdateEvent(ctx context.Context, eventID string, update EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}
