// Package tokenstore adapts a token repository to the synchronous,
// best-effort slot the session controller relies on. Backend failures are
// logged and swallowed: Read reports absent, Write and Clear become no-ops.
package tokenstore

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/dashboard/domain"
	"github.com/fastygo/dashboard/repository"
)

const defaultTimeout = 2 * time.Second

// Store is the persistent token slot.
type Store struct {
	repo    repository.TokenRepository
	timeout time.Duration
	logger  *zap.Logger
}

// New wraps repo. A nil repo yields a store that never persists anything.
func New(repo repository.TokenRepository, timeout time.Duration, logger *zap.Logger) *Store {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		repo:    repo,
		timeout: timeout,
		logger:  logger,
	}
}

// Read returns the stored token, if any.
func (s *Store) Read() (string, bool) {
	if s == nil || s.repo == nil {
		return "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	token, err := s.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrTokenNotFound) {
			s.logger.Warn("token store unavailable, treating as empty", zap.Error(err))
		}
		return "", false
	}
	return token, true
}

// Write persists token.
func (s *Store) Write(token string) {
	if s == nil || s.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.repo.Save(ctx, token); err != nil {
		s.logger.Warn("token store write failed, session will not survive a restart", zap.Error(err))
	}
}

// Clear empties the slot.
func (s *Store) Clear() {
	if s == nil || s.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.repo.Delete(ctx); err != nil {
		s.logger.Warn("token store clear failed", zap.Error(err))
	}
}

// Close releases the underlying repository.
func (s *Store) Close() error {
	if s == nil || s.repo == nil {
		return nil
	}
	return s.repo.Close()
}
