// Package cache keeps resolved API tokens close to the HTTP layer so that
// authenticated requests can skip the user lookup. Tokens never change once
// assigned and users are never edited, so entries only expire by TTL.
package cache

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/colorcheck/internal/server/models"
)

// ErrMiss is returned by Get when the token is not cached.
var ErrMiss = errors.New("cache miss")

type TokenCache interface {
	Get(ctx context.Context, token string) (*models.User, error)
	Set(ctx context.Context, token string, user *models.User) error
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (*models.User, error) { return nil, ErrMiss }
func (Nop) Set(context.Context, string, *models.User) error   { return nil }
