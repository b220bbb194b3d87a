package boltdb

import (
	"context"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/dashboard/domain"
	"github.com/fastygo/dashboard/repository"
)

const defaultBucket = "session"

type tokenRepository struct {
	db     *bolt.DB
	bucket []byte
	key    []byte
}

// Open initializes the BoltDB file and ensures the session bucket exists.
// The token lives under a single key inside that bucket.
func Open(path, key string) (repository.TokenRepository, error) {
	if key == "" {
		key = "token"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(defaultBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &tokenRepository{
		db:     db,
		bucket: []byte(defaultBucket),
		key:    []byte(key),
	}, nil
}

func (r *tokenRepository) Load(ctx context.Context) (string, error) {
	if err := r.ready(ctx); err != nil {
		return "", err
	}

	var token string
	err := r.db.View(func(tx *bolt.Tx) error {
		if value := tx.Bucket(r.bucket).Get(r.key); len(value) > 0 {
			token = string(value)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", domain.ErrTokenNotFound
	}
	return token, nil
}

func (r *tokenRepository) Save(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrInvalidPayload
	}
	if err := r.ready(ctx); err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).Put(r.key, []byte(token))
	})
}

func (r *tokenRepository) Delete(ctx context.Context) error {
	if err := r.ready(ctx); err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).Delete(r.key)
	})
}

// Close closes the Bolt database.
func (r *tokenRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *tokenRepository) ready(ctx context.Context) error {
	if r == nil || r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return ctx.Err()
}
