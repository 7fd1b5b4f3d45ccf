package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"eventsapi/internal/domain"
)

type eventService struct {
	eventRepo domain.EventRepository
}

// NewEventService returns an EventService backed by the given repository.
// The service is stateless; the repository handle is the only long-lived
// dependency and is shared across requests.
func NewEventService(eventRepo domain.EventRepository) domain.EventService {
	return &eventService{eventRepo: eventRepo}
}

// CreateEvent stores the event and returns the stored record. A missing
// eventId is replaced with a fresh random UUID; no collision or existence
// check is performed, so a duplicate id silently overwrites the old record.
func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if err := s.eventRepo.Put(ctx, event); err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// ListEvents retrieves the entire table and applies the filters in memory.
func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	events, err := s.eventRepo.Scan(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("list events: %w", err)
	}
	filtered := make([]*domain.Event, 0, len(events))
	for _, e := range events {
		if filter.Matches(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, fmt.Errorf("event ID is required: %w", domain.ErrInvalidInput)
	}
	event, err := s.eventRepo.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrStoreUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// UpdateEvent verifies the event exists, then writes only the supplied
// fields and returns the full record after the merge. There is no
// optimistic concurrency check; concurrent updates race at the store's
// native consistency and last write wins.
func (s *eventService) UpdateEvent(ctx context.Context, eventID string, update domain.EventUpdate) (*domain.Event, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, fmt.Errorf("event ID is required: %w", domain.ErrInvalidInput)
	}
	if !update.HasFields() {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrInvalidInput)
	}
	if _, err := s.eventRepo.Get(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrStoreUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	updated, err := s.eventRepo.Update(ctx, eventID, update.Fields())
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

// DeleteEvent verifies the event exists, then removes it.
func (s *eventService) DeleteEvent(ctx context.Context, eventID string) error {
	if strings.TrimSpace(eventID) == "" {
		return fmt.Errorf("event ID is required: %w", domain.ErrInvalidInput)
	}
	if _, err := s.eventRepo.Get(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrStoreUnavailable) {
			return err
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return err
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
