// Package users persists accounts. PostgreSQL and SQLite implementations
// share the Repository contract.
package users

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/colorcheck/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills ID and CreatedAt. A taken username or
	// token yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
	GetUserByToken(ctx context.Context, token string) (*models.User, error)
	// AssignTokenIfAbsent stores token unless the user already has one and
	// returns whichever token the user ends up with.
	AssignTokenIfAbsent(ctx context.Context, userID int64, token string) (string, error)
	// List returns all users ordered by id.
	List(ctx context.Context) ([]*models.User, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser reads id, username, password_hash, api_token, role.
func scanUser(row rowScanner) (*models.User, error) {
	var (
		user  models.User
		token sql.NullString
		role  string
	)
	if err := row.Scan(&user.ID, &user.UserName, &user.PasswordHash, &token, &role); err != nil {
		return nil, err
	}
	user.Token = token.String
	user.Role = models.Role(role)
	return &user, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
