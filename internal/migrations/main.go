// Package migrations holds the embedded bun migration set applied by the
// calapi db command.
package migrations

import "github.com/uptrace/bun/migrate"

// Migrations collects every registered migration in this package.
var Migrations = migrate.NewMigrations()
