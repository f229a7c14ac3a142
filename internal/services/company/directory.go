// Package company provides the tenant directory the authorization pipeline
// consults when binding a request to its company scope.
package company

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/saleshq/calapi/internal/db/models"
	"github.com/saleshq/calapi/internal/repository"
)

// ErrCompanyNotFound is returned when the company does not exist.
var ErrCompanyNotFound = errors.New("company not found")

// Directory resolves company ids to company records with a TTL-bounded cache
// in front of the repository. The cache keeps the per-request cost of tenant
// binding low; entries expire so suspensions take effect within the TTL.
type Directory struct {
	companies repository.CompanyRepository
	cache     *expirable.LRU[string, models.Company]
}

// NewDirectory constructs a directory with the given cache sizing.
func NewDirectory(companies repository.CompanyRepository, size int, ttl time.Duration) *Directory {
	return &Directory{
		companies: companies,
		cache:     expirable.NewLRU[string, models.Company](size, nil, ttl),
	}
}

// Lookup returns the company record for the id, from cache when fresh.
// Missing companies are not cached: the negative case is rare (a deleted
// tenant with live tokens) and must not linger.
func (d *Directory) Lookup(ctx context.Context, companyID string) (*models.Company, error) {
	if cached, ok := d.cache.Get(companyID); ok {
		company := cached
		return &company, nil
	}

	company, err := d.companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	d.cache.Add(companyID, *company)
	return company, nil
}
