package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/colorcheck/internal/common"
	"github.com/dmitrijs2005/colorcheck/internal/logging"
	"github.com/dmitrijs2005/colorcheck/internal/server/auth"
	"github.com/dmitrijs2005/colorcheck/internal/server/cache"
	"github.com/dmitrijs2005/colorcheck/internal/server/models"
	"github.com/dmitrijs2005/colorcheck/internal/server/repositories/repomanager"
)

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token string
	Role  models.Role
}

// AuthService verifies credentials and resolves API tokens to users.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       cache.TokenCache
	logger      logging.Logger
}

// NewAuthService builds an AuthService. A nil cache disables caching.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, c cache.TokenCache, l logging.Logger) *AuthService {
	if c == nil {
		c = cache.Nop{}
	}
	return &AuthService{db: db, repomanager: m, cache: c, logger: l.With("module", "auth_service")}
}

// Login checks the credentials and returns the user's token, assigning one
// on the first successful login. Concurrent first logins all get the same
// token.
func (s *AuthService) Login(ctx context.Context, userName, password string) (*LoginResult, error) {
	if userName == "" || password == "" {
		return nil, common.ErrCredentialsRequired
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}

	token := user.Token
	if token == "" {
		candidate, err := auth.NewToken()
		if err != nil {
			return nil, fmt.Errorf("error generating token: %w", err)
		}
		token, err = repo.AssignTokenIfAbsent(ctx, user.ID, candidate)
		if err != nil {
			return nil, fmt.Errorf("error assigning token: %w", err)
		}
		s.logger.Info(ctx, "token assigned", "user", user.UserName)
	}

	return &LoginResult{Token: token, Role: user.Role}, nil
}

// Resolve maps a raw header value ("Token <t>" or "<t>") to its user.
func (s *AuthService) Resolve(ctx context.Context, raw string) (*models.User, error) {
	token := auth.ExtractToken(raw)
	if token == "" {
		return nil, common.ErrTokenMissing
	}

	user, err := s.cache.Get(ctx, token)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn(ctx, "token cache read failed", "error", err)
	}

	user, err = s.repomanager.Users(s.db).GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error resolving token: %w", err)
	}

	if err := s.cache.Set(ctx, token, user); err != nil {
		s.logger.Warn(ctx, "token cache write failed", "error", err)
	}
	return user, nil
}
