// Package repository provides Bun-backed persistence for companies and
// calendar events. Every event operation other than ownership resolution is
// keyed by company id in addition to the event id, which makes the tenant
// isolation invariant structural: a caller cannot express a cross-company
// lookup through this API.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/saleshq/calapi/internal/db/models"
)

var (
	// ErrEventNotFound is returned when an event does not exist within the
	// requested company scope.
	ErrEventNotFound = errors.New("event not found")

	// ErrCompanyNotFound is returned when a company does not exist.
	ErrCompanyNotFound = errors.New("company not found")

	// ErrValidation wraps model validation failures so callers can tell bad
	// input apart from storage failures.
	ErrValidation = errors.New("validation failed")
)

// EventFilter narrows list and report queries to a time window.
type EventFilter struct {
	// From includes only events starting at or after this instant.
	From *time.Time
	// To includes only events starting before this instant.
	To *time.Time
	// Limit caps list results; zero means the repository default.
	Limit int
}

// EventCounts aggregates a company's events for the report endpoint.
type EventCounts struct {
	Total    int
	Upcoming int
	Past     int
}

// EventRepository persists calendar events.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, companyID, eventID string) (*models.Event, error)
	List(ctx context.Context, companyID string, filter EventFilter) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, companyID, eventID string) error

	// OwnerCompany resolves which company owns an event, for the tenant
	// gate's ownership check. Returns ErrEventNotFound when the event does
	// not exist at all; callers must not reveal that distinction.
	OwnerCompany(ctx context.Context, eventID string) (string, error)

	// Counts aggregates the company's events relative to now, within the
	// optional filter window.
	Counts(ctx context.Context, companyID string, filter EventFilter, now time.Time) (EventCounts, error)
}

// CompanyRepository persists companies (tenants).
type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, companyID string) (*models.Company, error)
}
