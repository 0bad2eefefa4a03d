package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/colorcheck/internal/common"
	"github.com/dmitrijs2005/colorcheck/internal/logging"
	"github.com/dmitrijs2005/colorcheck/internal/server/auth"
	"github.com/dmitrijs2005/colorcheck/internal/server/models"
	"github.com/dmitrijs2005/colorcheck/internal/server/policy"
	"github.com/dmitrijs2005/colorcheck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/colorcheck/internal/server/validation"
)

// AdminUserName is the account created at startup when missing.
const AdminUserName = "admin"

// CreateUserInput describes a new account. An empty Role means user.
type CreateUserInput struct {
	UserName string
	Password string
	Role     string
}

// UserService manages accounts.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *UserService {
	return &UserService{db: db, repomanager: m, logger: l.With("module", "user_service")}
}

// List returns every account to an admin caller. Tokens are blanked unless
// includeTokens is set.
func (s *UserService) List(ctx context.Context, caller *models.User, includeTokens bool) ([]*models.User, error) {
	if err := policy.RequireAdmin(caller); err != nil {
		return nil, err
	}

	list, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if !includeTokens {
		for _, u := range list {
			u.Token = ""
		}
	}
	return list, nil
}

// ListAll returns every account without an access check. It backs the
// operator CLI.
func (s *UserService) ListAll(ctx context.Context) ([]*models.User, error) {
	list, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return list, nil
}

// Create adds an account on behalf of an admin caller.
func (s *UserService) Create(ctx context.Context, caller *models.User, in CreateUserInput) (*models.User, error) {
	if err := policy.RequireAdmin(caller); err != nil {
		return nil, err
	}
	u, err := s.Provision(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user created", "username", u.UserName, "role", u.Role, "by", caller.UserName)
	return u, nil
}

// Provision validates in and stores the account with a fresh token. It
// performs no access check.
func (s *UserService) Provision(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if in.UserName == "" || in.Password == "" {
		return nil, common.ErrCredentialsRequired
	}
	role, err := validation.NormalizeRole(in.Role)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	token, err := auth.NewToken()
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		UserName:     in.UserName,
		PasswordHash: hash,
		Token:        token,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrUsernameExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// EnsureAdmin creates the admin account with password unless it already
// exists. It reports whether the account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, password string) (bool, error) {
	_, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, AdminUserName)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return false, fmt.Errorf("error looking up admin: %w", err)
	}

	u, err := s.Provision(ctx, CreateUserInput{UserName: AdminUserName, Password: password, Role: string(models.RoleAdmin)})
	if err != nil {
		// another instance won the race
		if errors.Is(err, common.ErrUsernameExists) {
			return false, nil
		}
		return false, err
	}

	s.logger.Info(ctx, "admin user created", "username", u.UserName, "api_token", u.Token)
	return true, nil
}
