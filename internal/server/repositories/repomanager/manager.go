// Package repomanager hands out dialect-specific repositories bound to a
// database handle or a transaction.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/colorcheck/internal/dbx"
	"github.com/dmitrijs2005/colorcheck/internal/filex"
	"github.com/dmitrijs2005/colorcheck/internal/server/repositories/colorchecks"
	"github.com/dmitrijs2005/colorcheck/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	ColorChecks(db dbx.DBTX) colorchecks.Repository
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// Open connects to the database named by url, checks the connection and
// applies pending migrations. The caller owns the returned *sql.DB.
func Open(ctx context.Context, url string) (*sql.DB, RepositoryManager, error) {
	src, err := dbx.ParseDatabaseURL(url)
	if err != nil {
		return nil, nil, err
	}

	if src.File != "" {
		if _, err := filex.EnsureParentDir(src.File); err != nil {
			return nil, nil, fmt.Errorf("db open error: %w", err)
		}
	}

	db, err := sqlOpen(src.DriverName, src.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	var m RepositoryManager
	switch src.Dialect {
	case dbx.DialectSQLite:
		// one writer at a time; also keeps :memory: on a single database
		db.SetMaxOpenConns(1)
		m = NewSQLiteRepositoryManager()
	default:
		m = NewPostgresRepositoryManager()
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}

	return db, m, nil
}
