package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/colorcheck/internal/dbx"
	"github.com/dmitrijs2005/colorcheck/internal/server/migrations"
	"github.com/dmitrijs2005/colorcheck/internal/server/repositories/colorchecks"
	"github.com/dmitrijs2005/colorcheck/internal/server/repositories/users"
)

type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrations.Up(ctx, db, dbx.DialectPostgres)
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) ColorChecks(db dbx.DBTX) colorchecks.Repository {
	return colorchecks.NewPostgresRepository(db)
}
