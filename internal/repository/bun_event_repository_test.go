package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/saleshq/calapi/internal/db/bunx"
	"github.com/saleshq/calapi/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database with the calapi schema.
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := bunx.NewDB(":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { bunx.Close(db) })

	ctx := context.Background()
	_, err = db.NewCreateTable().Model((*models.Company)(nil)).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewCreateTable().Model((*models.Event)(nil)).Exec(ctx)
	require.NoError(t, err)

	return db
}

func seedCompany(t *testing.T, db *bun.DB, name string) string {
	t.Helper()

	repo := NewBunCompanyRepository(db)
	company := &models.Company{ID: bunx.NewUUIDv7(), Name: name}
	require.NoError(t, repo.Create(context.Background(), company))
	return company.ID
}

func newTestEvent(companyID string, startsIn time.Duration) *models.Event {
	starts := time.Now().Add(startsIn)
	return &models.Event{
		ID:        bunx.NewUUIDv7(),
		CompanyID: companyID,
		Title:     "Prospect demo",
		Location:  "HQ",
		StartsAt:  starts,
		EndsAt:    starts.Add(time.Hour),
		CreatedBy: "user-1",
	}
}

func TestBunEventRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunEventRepository(db)
	ctx := context.Background()

	companyID := seedCompany(t, db, "T1")

	t.Run("create valid event", func(t *testing.T) {
		event := newTestEvent(companyID, time.Hour)
		require.NoError(t, repo.Create(ctx, event))

		retrieved, err := repo.GetByID(ctx, companyID, event.ID)
		require.NoError(t, err)
		assert.Equal(t, event.ID, retrieved.ID)
		assert.Equal(t, companyID, retrieved.CompanyID)
		assert.Equal(t, "Prospect demo", retrieved.Title)
		assert.False(t, retrieved.CreatedAt.IsZero())
	})

	t.Run("create rejects malformed event", func(t *testing.T) {
		event := newTestEvent(companyID, time.Hour)
		event.Title = ""
		assert.Error(t, repo.Create(ctx, event))
	})

	t.Run("get outside company scope reports not found", func(t *testing.T) {
		event := newTestEvent(companyID, time.Hour)
		require.NoError(t, repo.Create(ctx, event))

		otherCompany := seedCompany(t, db, "T2")
		_, err := repo.GetByID(ctx, otherCompany, event.ID)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestBunEventRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunEventRepository(db)
	ctx := context.Background()

	companyID := seedCompany(t, db, "T1")
	otherID := seedCompany(t, db, "T2")

	past := newTestEvent(companyID, -48*time.Hour)
	soon := newTestEvent(companyID, time.Hour)
	later := newTestEvent(companyID, 72*time.Hour)
	foreign := newTestEvent(otherID, time.Hour)
	for _, e := range []*models.Event{past, soon, later, foreign} {
		require.NoError(t, repo.Create(ctx, e))
	}

	t.Run("scoped to company, ordered by start", func(t *testing.T) {
		events, err := repo.List(ctx, companyID, EventFilter{})
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, past.ID, events[0].ID)
		assert.Equal(t, soon.ID, events[1].ID)
		assert.Equal(t, later.ID, events[2].ID)
	})

	t.Run("window filter", func(t *testing.T) {
		from := time.Now()
		to := time.Now().Add(24 * time.Hour)
		events, err := repo.List(ctx, companyID, EventFilter{From: &from, To: &to})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, soon.ID, events[0].ID)
	})

	t.Run("limit", func(t *testing.T) {
		events, err := repo.List(ctx, companyID, EventFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("empty scope returns empty slice", func(t *testing.T) {
		emptyID := seedCompany(t, db, "T3")
		events, err := repo.List(ctx, emptyID, EventFilter{})
		require.NoError(t, err)
		assert.NotNil(t, events)
		assert.Empty(t, events)
	})
}

func TestBunEventRepository_UpdateDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunEventRepository(db)
	ctx := context.Background()

	companyID := seedCompany(t, db, "T1")
	otherID := seedCompany(t, db, "T2")

	event := newTestEvent(companyID, time.Hour)
	require.NoError(t, repo.Create(ctx, event))

	t.Run("update within scope", func(t *testing.T) {
		event.Title = "Renamed demo"
		require.NoError(t, repo.Update(ctx, event))

		retrieved, err := repo.GetByID(ctx, companyID, event.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed demo", retrieved.Title)
	})

	t.Run("update cannot cross the company boundary", func(t *testing.T) {
		hijack := *event
		hijack.CompanyID = otherID
		err := repo.Update(ctx, &hijack)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("delete outside scope reports not found", func(t *testing.T) {
		err := repo.Delete(ctx, otherID, event.ID)
		assert.ErrorIs(t, err, ErrEventNotFound)

		// Still present in the owning company.
		_, err = repo.GetByID(ctx, companyID, event.ID)
		require.NoError(t, err)
	})

	t.Run("delete within scope", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, companyID, event.ID))

		_, err := repo.GetByID(ctx, companyID, event.ID)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestBunEventRepository_OwnerCompany(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunEventRepository(db)
	ctx := context.Background()

	companyID := seedCompany(t, db, "T1")
	event := newTestEvent(companyID, time.Hour)
	require.NoError(t, repo.Create(ctx, event))

	owner, err := repo.OwnerCompany(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, companyID, owner)

	_, err = repo.OwnerCompany(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestBunEventRepository_Counts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunEventRepository(db)
	ctx := context.Background()

	companyID := seedCompany(t, db, "T1")
	otherID := seedCompany(t, db, "T2")

	require.NoError(t, repo.Create(ctx, newTestEvent(companyID, -48*time.Hour)))
	require.NoError(t, repo.Create(ctx, newTestEvent(companyID, time.Hour)))
	require.NoError(t, repo.Create(ctx, newTestEvent(companyID, 72*time.Hour)))
	require.NoError(t, repo.Create(ctx, newTestEvent(otherID, time.Hour)))

	counts, err := repo.Counts(ctx, companyID, EventFilter{}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, EventCounts{Total: 3, Upcoming: 2, Past: 1}, counts)

	from := time.Now()
	counts, err = repo.Counts(ctx, companyID, EventFilter{From: &from}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, EventCounts{Total: 2, Upcoming: 2, Past: 0}, counts)
}

func TestBunCompanyRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunCompanyRepository(db)
	ctx := context.Background()

	company := &models.Company{ID: bunx.NewUUIDv7(), Name: "Acme"}
	require.NoError(t, repo.Create(ctx, company))

	retrieved, err := repo.GetByID(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", retrieved.Name)
	assert.False(t, retrieved.Suspended)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrCompanyNotFound)

	bad := &models.Company{ID: "not-a-uuid", Name: "Bad"}
	assert.Error(t, repo.Create(ctx, bad))
}
