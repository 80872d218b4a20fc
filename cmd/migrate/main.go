// Command migrate manages the room tracking schema by hand. The bot
// migrates automatically on startup; this tool exists for rollbacks
// and for inspecting migration state.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"blive_bot/migrations"
)

const usage = `Usage: migrate [-db path] <command>

Commands:
  up       apply all pending migrations
  down     roll back the most recent migration
  redo     roll back one migration, then reapply it
  status   print applied and pending migrations
  version  print the current schema version
`

func main() {
	dbPath := flag.String("db", defaultDBPath(), "sqlite database file")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatalf("open %s: %v", *dbPath, err)
	}
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(migrations.Dialect); err != nil {
		log.Fatalf("set dialect: %v", err)
	}

	cmd := flag.Arg(0)
	switch cmd {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "redo":
		err = goose.Redo(db, ".")
	case "status":
		err = goose.Status(db, ".")
	case "version":
		err = goose.Version(db, ".")
	default:
		fmt.Fprint(os.Stderr, usage)
		log.Fatalf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

// defaultDBPath mirrors the bot's own DATABASE_PATH handling so both
// binaries point at the same file out of the box.
func defaultDBPath() string {
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		return v
	}
	return "./data/bot.db"
}
