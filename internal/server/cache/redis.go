package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/colorcheck/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "colorcheck:token:"

// cachedUser is the stored form. The password hash stays out of Redis.
type cachedUser struct {
	ID       int64       `json:"id"`
	UserName string      `json:"username"`
	Role     models.Role `json:"role"`
}

type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Connect dials addr and checks the connection.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping error: %w", err)
	}
	return client, nil
}

func (c *RedisCache) Get(ctx context.Context, token string) (*models.User, error) {
	b, err := c.client.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}

	var cu cachedUser
	if err := json.Unmarshal(b, &cu); err != nil {
		return nil, err
	}
	return &models.User{ID: cu.ID, UserName: cu.UserName, Role: cu.Role, Token: token}, nil
}

func (c *RedisCache) Set(ctx context.Context, token string, user *models.User) error {
	b, err := json.Marshal(cachedUser{ID: user.ID, UserName: user.UserName, Role: user.Role})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+token, b, c.ttl).Err()
}
