// Package migrations embeds the schema migrations for every supported
// dialect and applies them with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/colorcheck/internal/dbx"
	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Up applies all pending migrations of the given dialect.
func Up(ctx context.Context, db *sql.DB, dialect dbx.Dialect) error {
	var gooseDialect, dir string
	switch dialect {
	case dbx.DialectPostgres:
		gooseDialect, dir = "pgx", "postgres"
	case dbx.DialectSQLite:
		gooseDialect, dir = "sqlite3", "sqlite"
	default:
		return fmt.Errorf("no migrations for dialect %q", dialect)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, dir)
}
