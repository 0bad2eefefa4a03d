package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/colorcheck/internal/common"
	"github.com/dmitrijs2005/colorcheck/internal/dbx"
	"github.com/dmitrijs2005/colorcheck/internal/server/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository implements Repository over a DBTX bound to SQLite.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (username, password_hash, api_token, role)
		VALUES (?, ?, ?, ?)
		RETURNING id, created_at`

	var createdAt int64
	err := r.db.QueryRowContext(ctx, query,
		user.UserName, user.PasswordHash, nullIfEmpty(user.Token), string(user.Role)).Scan(&user.ID, &createdAt)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.CreatedAt = time.Unix(createdAt, 0).UTC()

	return user, nil
}

func (r *SQLiteRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	query := `SELECT id, username, password_hash, api_token, role FROM users WHERE username = ?`
	return r.getOne(ctx, query, userName)
}

func (r *SQLiteRepository) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT id, username, password_hash, api_token, role FROM users WHERE api_token = ?`
	return r.getOne(ctx, query, token)
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// AssignTokenIfAbsent is a single statement, so SQLite's database-level
// write lock makes it atomic.
func (r *SQLiteRepository) AssignTokenIfAbsent(ctx context.Context, userID int64, token string) (string, error) {
	query := `UPDATE users SET api_token = COALESCE(api_token, ?) WHERE id = ? RETURNING api_token`

	var final string
	err := r.db.QueryRowContext(ctx, query, token, userID).Scan(&final)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return final, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, username, password_hash, api_token, role FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func isSQLiteUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// primary code only when extended result codes are off
		return strings.Contains(se.Error(), "UNIQUE")
	}
	return false
}
