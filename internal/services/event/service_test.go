package event

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
	"github.com/saleshq/calapi/internal/repository"
)

func setupService(t *testing.T) (*Service, *bun.DB) {
	t.Helper()

	db, err := bunx.NewDB(":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { bunx.Close(db) })

	ctx := context.Background()
	_, err = db.NewCreateTable().Model((*models.Company)(nil)).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewCreateTable().Model((*models.Event)(nil)).Exec(ctx)
	require.NoError(t, err)

	return NewService(repository.NewBunEventRepository(db)), db
}

func seedCompany(t *testing.T, db *bun.DB) string {
	t.Helper()

	company := &models.Company{ID: bunx.NewUUIDv7(), Name: "Acme"}
	require.NoError(t, repository.NewBunCompanyRepository(db).Create(context.Background(), company))
	return company.ID
}

func validInput(startsIn time.Duration) Input {
	starts := time.Now().Add(startsIn)
	return Input{
		Title:    "Quarterly review",
		Location: "Room 2",
		StartsAt: starts,
		EndsAt:   starts.Add(time.Hour),
	}
}

func TestService_CreateGet(t *testing.T) {
	svc, db := setupService(t)
	companyID := seedCompany(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, companyID, "user-1", validInput(time.Hour))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, companyID, created.CompanyID)
	assert.Equal(t, "user-1", created.CreatedBy)

	got, err := svc.Get(ctx, companyID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestService_CreateValidation(t *testing.T) {
	svc, db := setupService(t)
	companyID := seedCompany(t, db)
	ctx := context.Background()

	in := validInput(time.Hour)
	in.Title = ""
	_, err := svc.Create(ctx, companyID, "user-1", in)
	assert.ErrorIs(t, err, ErrInvalidEvent)

	in = validInput(time.Hour)
	in.EndsAt = in.StartsAt.Add(-time.Minute)
	_, err = svc.Create(ctx, companyID, "user-1", in)
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestService_GetScopedByCompany(t *testing.T) {
	svc, db := setupService(t)
	companyID := seedCompany(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, companyID, "user-1", validInput(time.Hour))
	require.NoError(t, err)

	otherCompany := seedCompany(t, db)
	_, err = svc.Get(ctx, otherCompany, created.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestService_Update(t *testing.T) {
	svc, db := setupService(t)
	companyID := seedCompany(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, companyID, "user-1", validInput(time.Hour))
	require.NoError(t, err)

	in := validInput(2 * time.Hour)
	in.Title = "Rescheduled review"
	updated, err := svc.Update(ctx, companyID, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Rescheduled review", updated.Title)

	_, err = svc.Update(ctx, companyID, uuid.NewString(), in)
	assert.ErrorIs(t, err, ErrEventNotFound)

	in.Title = ""
	_, err = svc.Update(ctx, companyID, created.ID, in)
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestService_Delete(t *testing.T) {
	svc, db := setupService(t)
	companyID := seedCompany(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, companyID, "user-1", validInput(time.Hour))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, companyID, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, companyID, created.ID), ErrEventNotFound)
}

func TestService_BuildReport(t *testing.T) {
	svc, db := setupService(t)
	companyID := seedCompany(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, companyID, "user-1", validInput(-48*time.Hour))
	require.NoError(t, err)
	_, err = svc.Create(ctx, companyID, "user-1", validInput(time.Hour))
	require.NoError(t, err)
	_, err = svc.Create(ctx, companyID, "user-1", validInput(72*time.Hour))
	require.NoError(t, err)

	report, err := svc.BuildReport(ctx, companyID, Filter{})
	require.NoError(t, err)
	assert.Equal(t, companyID, report.CompanyID)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Upcoming)
	assert.Equal(t, 1, report.Past)

	from := time.Now()
	report, err = svc.BuildReport(ctx, companyID, Filter{From: &from})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 0, report.Past)
}
