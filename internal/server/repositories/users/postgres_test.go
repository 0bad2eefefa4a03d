package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/colorcheck/internal/common"
	"github.com/dmitrijs2005/colorcheck/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var userColumns = []string{"id", "username", "password_hash", "api_token", "role"}

func TestPostgresRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (username, password_hash, api_token, role)`)).
		WithArgs("alice", "hash", "tok", "user").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	u, err := repo.Create(context.Background(), &models.User{UserName: "alice", PasswordHash: "hash", Token: "tok", Role: models.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, now, u.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Create_UniqueViolation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice", Role: models.RoleUser})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestPostgresRepository_Create_OtherError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(errors.New("boom"))

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice", Role: models.RoleUser})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Contains(t, err.Error(), "db error")
}

func TestPostgresRepository_GetUserByLogin(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`SELECT id, username, password_hash, api_token, role FROM users\s+WHERE username = \$1`).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(1), "admin", "hash", nil, "admin"))

	u, err := repo.GetUserByLogin(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.UserName)
	assert.Equal(t, "", u.Token)
	assert.Equal(t, models.RoleAdmin, u.Role)
}

func TestPostgresRepository_GetUserByToken_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`WHERE api_token = \$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByToken(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgresRepository_AssignTokenIfAbsent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET api_token = COALESCE(api_token, $1)`)).
		WithArgs("fresh", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"api_token"}).AddRow("existing"))

	tok, err := repo.AssignTokenIfAbsent(context.Background(), 3, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "existing", tok)
}

func TestPostgresRepository_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(1), "admin", "h1", "t1", "admin").
			AddRow(int64(2), "bob", "h2", nil, "user"))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "t1", list[0].Token)
	assert.Equal(t, "bob", list[1].UserName)
	assert.Equal(t, "", list[1].Token)
}

func TestPostgresRepository_List_QueryError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`ORDER BY id`).WillReturnError(errors.New("down"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
}
