package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// MaxEventTitleLength caps event titles to keep list payloads bounded.
const MaxEventTitleLength = 200

// Event is one calendar event, always owned by exactly one company.
type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID        string    `bun:"id,pk,type:uuid"`
	CompanyID string    `bun:"company_id,notnull,type:uuid"`
	Title     string    `bun:"title,notnull"`
	Location  string    `bun:"location"`
	Notes     string    `bun:"notes"`
	StartsAt  time.Time `bun:"starts_at,notnull"`
	EndsAt    time.Time `bun:"ends_at,notnull"`
	CreatedBy string    `bun:"created_by,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// ValidateForWrite verifies the record is well formed before insert or update.
func (e *Event) ValidateForWrite() error {
	if _, err := uuid.Parse(e.ID); err != nil {
		return errors.New("event id must be a valid UUID")
	}
	if _, err := uuid.Parse(e.CompanyID); err != nil {
		return errors.New("event company_id must be a valid UUID")
	}
	if e.Title == "" {
		return errors.New("event title is required")
	}
	if len(e.Title) > MaxEventTitleLength {
		return errors.New("event title exceeds maximum length")
	}
	if e.StartsAt.IsZero() || e.EndsAt.IsZero() {
		return errors.New("event requires starts_at and ends_at")
	}
	if !e.EndsAt.After(e.StartsAt) {
		return errors.New("event must end after it starts")
	}
	if e.CreatedBy == "" {
		return errors.New("event created_by is required")
	}
	return nil
}
