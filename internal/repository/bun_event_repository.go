package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/saleshq/calapi/internal/db/models"
)

const defaultListLimit = 100

// BunEventRepository persists events using Bun ORM.
type BunEventRepository struct {
	db *bun.DB
}

// NewBunEventRepository constructs a repository backed by Bun.
func NewBunEventRepository(db *bun.DB) *BunEventRepository {
	return &BunEventRepository{db: db}
}

// Create inserts a new event row using the client-provided id.
func (r *BunEventRepository) Create(ctx context.Context, event *models.Event) error {
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := event.ValidateForWrite(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if _, err := r.db.NewInsert().Model(event).Exec(ctx); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

// GetByID fetches an event within the given company scope.
func (r *BunEventRepository) GetByID(ctx context.Context, companyID, eventID string) (*models.Event, error) {
	event := new(models.Event)
	err := r.db.NewSelect().
		Model(event).
		Where("e.id = ?", eventID).
		Where("e.company_id = ?", companyID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("query event: %w", err)
	}

	return event, nil
}

// List returns the company's events ordered by start time, optionally
// narrowed to a window.
func (r *BunEventRepository) List(ctx context.Context, companyID string, filter EventFilter) ([]models.Event, error) {
	limit := filter.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	var events []models.Event
	q := r.db.NewSelect().
		Model(&events).
		Where("e.company_id = ?", companyID).
		Order("starts_at ASC").
		Limit(limit)

	if filter.From != nil {
		q = q.Where("e.starts_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("e.starts_at < ?", *filter.To)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

// Update persists mutated event fields. The company id in the model is part
// of the WHERE clause, never an updated column, so an update can neither move
// an event across companies nor touch another company's row.
func (r *BunEventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now()

	if err := event.ValidateForWrite(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	result, err := r.db.NewUpdate().
		Model(event).
		Column("title", "location", "notes", "starts_at", "ends_at", "updated_at").
		WherePK().
		Where("e.company_id = ?", event.CompanyID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrEventNotFound
	}

	return nil
}

// Delete removes an event within the given company scope.
func (r *BunEventRepository) Delete(ctx context.Context, companyID, eventID string) error {
	result, err := r.db.NewDelete().
		Model((*models.Event)(nil)).
		Where("e.id = ?", eventID).
		Where("e.company_id = ?", companyID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrEventNotFound
	}

	return nil
}

// OwnerCompany resolves the owning company of an event regardless of scope.
// This is the one deliberately unscoped query; only the tenant gate consumes
// it, to compare the owner against the bound company.
func (r *BunEventRepository) OwnerCompany(ctx context.Context, eventID string) (string, error) {
	var companyID string
	err := r.db.NewSelect().
		Model((*models.Event)(nil)).
		Column("company_id").
		Where("e.id = ?", eventID).
		Scan(ctx, &companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrEventNotFound
		}
		return "", fmt.Errorf("query event owner: %w", err)
	}

	return companyID, nil
}

// Counts aggregates the company's events relative to now.
func (r *BunEventRepository) Counts(ctx context.Context, companyID string, filter EventFilter, now time.Time) (EventCounts, error) {
	base := func() *bun.SelectQuery {
		q := r.db.NewSelect().
			Model((*models.Event)(nil)).
			Where("e.company_id = ?", companyID)
		if filter.From != nil {
			q = q.Where("e.starts_at >= ?", *filter.From)
		}
		if filter.To != nil {
			q = q.Where("e.starts_at < ?", *filter.To)
		}
		return q
	}

	total, err := base().Count(ctx)
	if err != nil {
		return EventCounts{}, fmt.Errorf("count events: %w", err)
	}

	upcoming, err := base().Where("e.starts_at > ?", now).Count(ctx)
	if err != nil {
		return EventCounts{}, fmt.Errorf("count upcoming events: %w", err)
	}

	past, err := base().Where("e.ends_at < ?", now).Count(ctx)
	if err != nil {
		return EventCounts{}, fmt.Errorf("count past events: %w", err)
	}

	return EventCounts{Total: total, Upcoming: upcoming, Past: past}, nil
}
