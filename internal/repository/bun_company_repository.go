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

// BunCompanyRepository persists companies using Bun ORM.
type BunCompanyRepository struct {
	db *bun.DB
}

// NewBunCompanyRepository constructs a repository backed by Bun.
func NewBunCompanyRepository(db *bun.DB) *BunCompanyRepository {
	return &BunCompanyRepository{db: db}
}

// Create inserts a new company row.
func (r *BunCompanyRepository) Create(ctx context.Context, company *models.Company) error {
	if err := company.ValidateForCreate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	now := time.Now()
	company.CreatedAt = now
	company.UpdatedAt = now

	if _, err := r.db.NewInsert().Model(company).Exec(ctx); err != nil {
		return fmt.Errorf("insert company: %w", err)
	}

	return nil
}

// GetByID fetches a company by its id.
func (r *BunCompanyRepository) GetByID(ctx context.Context, companyID string) (*models.Company, error) {
	company := new(models.Company)
	err := r.db.NewSelect().Model(company).Where("c.id = ?", companyID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("query company: %w", err)
	}

	return company, nil
}
