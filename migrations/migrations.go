// Package migrations carries the schema for the room tracking
// database as embedded goose SQL files.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

const Dialect = "sqlite3"

//go:embed *.sql
var FS embed.FS

// Run brings the rooms schema up to date. The bot calls this on
// startup so a fresh database file is usable without a separate
// migrate step.
func Run(db *sql.DB) error {
	goose.SetBaseFS(FS)

	if err := goose.SetDialect(Dialect); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
