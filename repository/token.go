package repository

import "context"

// TokenRepository persists the single session token slot. Load returns
// domain.ErrTokenNotFound when the slot is empty; Delete on an empty slot
// succeeds.
type TokenRepository interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
	Close() error
}
