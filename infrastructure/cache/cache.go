// Package cache guarda valores serializados com expiração, em Redis ou em memória.
package cache

import (
	"context"
	"errors"
	"time"
)

//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks

// ErrCacheMiss indica chave ausente ou expirada
var ErrCacheMiss = errors.New("cache: chave não encontrada")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
