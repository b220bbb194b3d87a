package redis

import (
	"context"
	"errors"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/dashboard/domain"
	"github.com/fastygo/dashboard/repository"
)

type tokenRepository struct {
	client *redislib.Client
	prefix string
	key    string
}

// NewTokenRepository creates a Redis-backed token repository. The token is
// stored without expiry under "<prefix><key>".
func NewTokenRepository(client *redislib.Client, prefix, key string) repository.TokenRepository {
	if prefix == "" {
		prefix = "dashboard:"
	}
	if key == "" {
		key = "token"
	}
	return &tokenRepository{
		client: client,
		prefix: prefix,
		key:    key,
	}
}

func (r *tokenRepository) Load(ctx context.Context) (string, error) {
	result, err := r.client.Get(ctx, r.slot()).Result()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", domain.ErrTokenNotFound
		}
		return "", err
	}
	if result == "" {
		return "", domain.ErrTokenNotFound
	}
	return result, nil
}

func (r *tokenRepository) Save(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrInvalidPayload
	}
	return r.client.Set(ctx, r.slot(), token, 0).Err()
}

func (r *tokenRepository) Delete(ctx context.Context) error {
	return r.client.Del(ctx, r.slot()).Err()
}

func (r *tokenRepository) Close() error {
	return r.client.Close()
}

func (r *tokenRepository) slot() string {
	return fmt.Sprintf("%s%s", r.prefix, r.key)
}
