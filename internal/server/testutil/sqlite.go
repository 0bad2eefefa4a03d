// Package testutil provides fixtures shared by the server test suites.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/colorcheck/internal/dbx"
	"github.com/dmitrijs2005/colorcheck/internal/server/migrations"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// NewSQLiteDB returns a migrated in-memory SQLite database that is closed
// when the test ends. The pool holds a single connection so every query
// sees the same database.
func NewSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	src, err := dbx.ParseDatabaseURL("sqlite://")
	require.NoError(t, err)

	db, err := sql.Open(src.DriverName, src.DSN)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db, src.Dialect))
	return db
}
