// store.go - Key-value store abstraction behind the medicine result cache

package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key does not exist
	ErrNotFound = errors.New("storage: key not found")
	// ErrStoreFull is returned by Set when the store refuses new entries
	ErrStoreFull = errors.New("storage: store is full")
)

// Store is a flat byte-valued key-value store.
// Expiry is the caller's business; stores keep entries until deleted.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lists every key starting with prefix
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
