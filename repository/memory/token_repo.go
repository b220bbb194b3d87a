package memory

import (
	"context"
	"sync"

	"github.com/fastygo/dashboard/domain"
	"github.com/fastygo/dashboard/repository"
)

// TokenRepository keeps the token in process memory. It backs ephemeral runs
// and tests; nothing survives a restart.
type TokenRepository struct {
	mu    sync.Mutex
	token string
}

// NewTokenRepository returns an empty in-memory repository.
func NewTokenRepository() *TokenRepository {
	return &TokenRepository{}
}

var _ repository.TokenRepository = (*TokenRepository)(nil)

func (r *TokenRepository) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.token == "" {
		return "", domain.ErrTokenNotFound
	}
	return r.token, nil
}

func (r *TokenRepository) Save(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = token
	return nil
}

func (r *TokenRepository) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = ""
	return nil
}

func (r *TokenRepository) Close() error {
	return nil
}
