package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/colorcheck/internal/dbx"
	"github.com/dmitrijs2005/colorcheck/internal/server/migrations"
	"github.com/dmitrijs2005/colorcheck/internal/server/repositories/colorchecks"
	"github.com/dmitrijs2005/colorcheck/internal/server/repositories/users"
)

type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrations.Up(ctx, db, dbx.DialectSQLite)
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) ColorChecks(db dbx.DBTX) colorchecks.Repository {
	return colorchecks.NewSQLiteRepository(db)
}
