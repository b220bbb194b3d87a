package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/dashboard/domain"
	"github.com/fastygo/dashboard/repository"
)

func newTokenRepositoryTest(t *testing.T) (repository.TokenRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	repo := NewTokenRepository(client, "dash:", "token")
	t.Cleanup(func() { _ = repo.Close() })
	return repo, mr
}

func TestSaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTokenRepositoryTest(t)

	require.NoError(t, repo.Save(ctx, "abc123"))

	stored, err := mr.Get("dash:token")
	require.NoError(t, err)
	assert.Equal(t, "abc123", stored)
	assert.Zero(t, mr.TTL("dash:token"), "token must not expire")

	token, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	require.NoError(t, repo.Delete(ctx))
	require.NoError(t, repo.Delete(ctx))
	assert.False(t, mr.Exists("dash:token"))

	_, err = repo.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestUnavailableServer(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTokenRepositoryTest(t)
	mr.Close()

	_, err := repo.Load(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestDefaultSlot(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	repo := NewTokenRepository(client, "", "")
	defer repo.Close()

	require.NoError(t, repo.Save(context.Background(), "abc123"))
	assert.True(t, mr.Exists("dashboard:token"))
}
