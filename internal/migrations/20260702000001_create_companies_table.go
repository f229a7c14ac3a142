package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/saleshq/calapi/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20260702000001, down_20260702000001)
}

// up_20260702000001 creates the companies table
func up_20260702000001(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] creating companies table...")

	_, err := db.NewCreateTable().
		Model((*models.Company)(nil)).
		IfNotExists().
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to create companies table: %w", err)
	}

	fmt.Println(" OK")
	return nil
}

// down_20260702000001 drops the companies table
func down_20260702000001(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] dropping companies table...")

	_, err := db.NewDropTable().
		Model((*models.Company)(nil)).
		IfExists().
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to drop companies table: %w", err)
	}

	fmt.Println(" OK")
	return nil
}
