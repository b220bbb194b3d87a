package file

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/fastygo/dashboard/domain"
	"github.com/fastygo/dashboard/repository"
)

type tokenRepository struct {
	path string
}

// NewTokenRepository stores the raw token in a single file. Writes replace the
// file atomically so a crash never leaves a truncated token behind.
func NewTokenRepository(path string) (repository.TokenRepository, error) {
	if path == "" {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "token file path is empty", domain.ErrInvalidPayload)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return &tokenRepository{path: path}, nil
}

func (r *tokenRepository) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", domain.ErrTokenNotFound
	} else if err != nil {
		return "", err
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", domain.ErrTokenNotFound
	}
	return token, nil
}

func (r *tokenRepository) Save(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := atomic.WriteFile(r.path, bytes.NewReader([]byte(token))); err != nil {
		return err
	}
	return os.Chmod(r.path, 0o600)
}

func (r *tokenRepository) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (r *tokenRepository) Close() error {
	return nil
}
