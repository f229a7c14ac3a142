package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Company is a tenant: all event data is owned by exactly one company and
// must never be visible across company boundaries.
type Company struct {
	bun.BaseModel `bun:"table:companies,alias:c"`

	ID        string    `bun:"id,pk,type:uuid"`
	Name      string    `bun:"name,notnull"`
	Suspended bool      `bun:"suspended,notnull,default:false"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// ValidateForCreate verifies the record is well formed before insertion.
func (c *Company) ValidateForCreate() error {
	if _, err := uuid.Parse(c.ID); err != nil {
		return errors.New("company id must be a valid UUID")
	}
	if c.Name == "" {
		return errors.New("company name is required")
	}
	if len(c.Name) > 128 {
		return errors.New("company name exceeds maximum length")
	}
	return nil
}
