package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/dashboard/domain"
)

func TestTokenRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTokenRepository()

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)

	require.NoError(t, repo.Save(ctx, "abc123"))
	token, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	require.NoError(t, repo.Delete(ctx))
	_, err = repo.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewTokenRepository()
	assert.ErrorIs(t, repo.Save(ctx, "abc123"), context.Canceled)
}
