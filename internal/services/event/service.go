// Package event implements the calendar-event business operations invoked by
// the HTTP handlers after the authorization pipeline has passed. Every method
// takes the bound company id explicitly; the service never derives scope from
// anything else.
package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/saleshq/calapi/internal/db/bunx"
	"github.com/saleshq/calapi/internal/db/models"
	"github.com/saleshq/calapi/internal/repository"
)

var (
	// ErrEventNotFound is returned when the event does not exist within the
	// caller's company scope.
	ErrEventNotFound = errors.New("event not found")

	// ErrInvalidEvent wraps input validation failures.
	ErrInvalidEvent = errors.New("invalid event")
)

// Input carries the writable fields of an event.
type Input struct {
	Title    string
	Location string
	Notes    string
	StartsAt time.Time
	EndsAt   time.Time
}

// Filter narrows list and report operations to a start-time window.
type Filter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// Report aggregates a company's events over an optional window.
type Report struct {
	CompanyID string
	From      *time.Time
	To        *time.Time
	Total     int
	Upcoming  int
	Past      int
}

// Service exposes the calendar-event operations.
type Service struct {
	events repository.EventRepository
}

// NewService constructs the event service.
func NewService(events repository.EventRepository) *Service {
	return &Service{events: events}
}

// Create inserts a new event owned by the company.
func (s *Service) Create(ctx context.Context, companyID, createdBy string, in Input) (*models.Event, error) {
	event := &models.Event{
		ID:        bunx.NewUUIDv7(),
		CompanyID: companyID,
		Title:     in.Title,
		Location:  in.Location,
		Notes:     in.Notes,
		StartsAt:  in.StartsAt,
		EndsAt:    in.EndsAt,
		CreatedBy: createdBy,
	}

	if err := s.events.Create(ctx, event); err != nil {
		if errors.Is(err, repository.ErrValidation) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
		}
		return nil, fmt.Errorf("create event: %w", err)
	}

	return event, nil
}

// Get fetches one event within the company scope.
func (s *Service) Get(ctx context.Context, companyID, eventID string) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, companyID, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// List returns the company's events within the optional window.
func (s *Service) List(ctx context.Context, companyID string, filter Filter) ([]models.Event, error) {
	events, err := s.events.List(ctx, companyID, repository.EventFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Update replaces the writable fields of an event within the company scope.
func (s *Service) Update(ctx context.Context, companyID, eventID string, in Input) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, companyID, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("load event for update: %w", err)
	}

	event.Title = in.Title
	event.Location = in.Location
	event.Notes = in.Notes
	event.StartsAt = in.StartsAt
	event.EndsAt = in.EndsAt

	if err := s.events.Update(ctx, event); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		if errors.Is(err, repository.ErrValidation) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
		}
		return nil, fmt.Errorf("update event: %w", err)
	}

	return event, nil
}

// Delete removes an event within the company scope.
func (s *Service) Delete(ctx context.Context, companyID, eventID string) error {
	if err := s.events.Delete(ctx, companyID, eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// BuildReport aggregates the company's events relative to now.
func (s *Service) BuildReport(ctx context.Context, companyID string, filter Filter) (*Report, error) {
	counts, err := s.events.Counts(ctx, companyID, repository.EventFilter(filter), time.Now())
	if err != nil {
		return nil, fmt.Errorf("aggregate events: %w", err)
	}

	return &Report{
		CompanyID: companyID,
		From:      filter.From,
		To:        filter.To,
		Total:     counts.Total,
		Upcoming:  counts.Upcoming,
		Past:      counts.Past,
	}, nil
}
