package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/saleshq/calapi/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20260702000002, down_20260702000002)
}

// up_20260702000002 creates the events table with the company scope index
func up_20260702000002(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] creating events table...")

	_, err := db.NewCreateTable().
		Model((*models.Event)(nil)).
		IfNotExists().
		ForeignKey(`("company_id") REFERENCES "companies" ("id")`).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}

	// Every lookup is scoped by company_id; index it together with the
	// start time the list endpoint orders by.
	_, err = db.NewCreateIndex().
		Model((*models.Event)(nil)).
		Index("idx_events_company_starts_at").
		IfNotExists().
		Column("company_id", "starts_at").
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to create events company index: %w", err)
	}

	// Time-order check constraint (PostgreSQL only). SQLite cannot add a
	// constraint to an existing table; it relies on the application-layer
	// check in models.Event.ValidateForWrite().
	if IsPostgreSQL(db) {
		_, err = db.Exec(`ALTER TABLE events ADD CONSTRAINT events_time_order CHECK (ends_at > starts_at)`)
		if err != nil {
			return fmt.Errorf("failed to add events time-order constraint: %w", err)
		}
	}

	fmt.Println(" OK")
	return nil
}

// down_20260702000002 drops the events table
func down_20260702000002(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] dropping events table...")

	_, err := db.NewDropTable().
		Model((*models.Event)(nil)).
		IfExists().
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to drop events table: %w", err)
	}

	fmt.Println(" OK")
	return nil
}
