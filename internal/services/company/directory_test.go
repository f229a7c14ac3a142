package company

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saleshq/calapi/internal/db/models"
	"github.com/saleshq/calapi/internal/repository"
)

type fakeCompanyRepo struct {
	companies map[string]*models.Company
	lookups   int
	failWith  error
}

func (f *fakeCompanyRepo) Create(ctx context.Context, company *models.Company) error {
	f.companies[company.ID] = company
	return nil
}

func (f *fakeCompanyRepo) GetByID(ctx context.Context, companyID string) (*models.Company, error) {
	f.lookups++
	if f.failWith != nil {
		return nil, f.failWith
	}
	company, ok := f.companies[companyID]
	if !ok {
		return nil, repository.ErrCompanyNotFound
	}
	copied := *company
	return &copied, nil
}

func TestDirectory_LookupCachesHits(t *testing.T) {
	id := uuid.NewString()
	repo := &fakeCompanyRepo{companies: map[string]*models.Company{
		id: {ID: id, Name: "Acme"},
	}}
	dir := NewDirectory(repo, 8, time.Minute)
	ctx := context.Background()

	first, err := dir.Lookup(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", first.Name)

	second, err := dir.Lookup(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", second.Name)

	assert.Equal(t, 1, repo.lookups, "second lookup must come from cache")
}

func TestDirectory_DoesNotCacheMisses(t *testing.T) {
	repo := &fakeCompanyRepo{companies: map[string]*models.Company{}}
	dir := NewDirectory(repo, 8, time.Minute)
	ctx := context.Background()
	id := uuid.NewString()

	_, err := dir.Lookup(ctx, id)
	assert.ErrorIs(t, err, ErrCompanyNotFound)

	_, err = dir.Lookup(ctx, id)
	assert.ErrorIs(t, err, ErrCompanyNotFound)

	assert.Equal(t, 2, repo.lookups, "misses must reach the repository each time")
}

func TestDirectory_PropagatesRepositoryErrors(t *testing.T) {
	boom := errors.New("connection refused")
	repo := &fakeCompanyRepo{companies: map[string]*models.Company{}, failWith: boom}
	dir := NewDirectory(repo, 8, time.Minute)

	_, err := dir.Lookup(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, boom)
}
