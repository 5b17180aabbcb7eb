package storage

import (
	"context"
	"fmt"
	"time"

	valkeylib "github.com/valkey-io/valkey-go"
)

// DefaultValkeyConnectTimeout bounds the initial ping
const DefaultValkeyConnectTimeout = 5 * time.Second

// ValkeyConfig holds connection settings for ValkeyStore
type ValkeyConfig struct {
	Address  string
	Password string
	DB       int
}

// ValkeyStore shares cache entries between several service instances
type ValkeyStore struct {
	inner valkeylib.Client
}

// NewValkeyStore creates the client and verifies it with PING
func NewValkeyStore(ctx context.Context, cfg ValkeyConfig) (*ValkeyStore, error) {
	opts := valkeylib.ClientOption{
		InitAddress: []string{cfg.Address},
		SelectDB:    cfg.DB,
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	inner, err := valkeylib.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, DefaultValkeyConnectTimeout)
	defer cancel()

	if err := inner.Do(pingCtx, inner.B().Ping().Build()).Error(); err != nil {
		inner.Close()
		return nil, fmt.Errorf("failed to ping valkey (timeout: %v): %w", DefaultValkeyConnectTimeout, err)
	}

	return &ValkeyStore{inner: inner}, nil
}

func (s *ValkeyStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.inner.Do(ctx, s.inner.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if valkeylib.IsValkeyNil(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}
	return data, nil
}

func (s *ValkeyStore) Set(ctx context.Context, key string, value []byte) error {
	cmd := s.inner.B().Set().Key(key).Value(valkeylib.BinaryString(value)).Build()
	if err := s.inner.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

func (s *ValkeyStore) Delete(ctx context.Context, key string) error {
	if err := s.inner.Do(ctx, s.inner.B().Del().Key(key).Build()).Error(); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

func (s *ValkeyStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		cmd := s.inner.B().Scan().Cursor(cursor).Match(prefix + "*").Count(100).Build()
		result, err := s.inner.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("failed to scan cache keys: %w", err)
		}

		keys = append(keys, result.Elements...)
		cursor = result.Cursor
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

// Close closes the client
func (s *ValkeyStore) Close() error {
	s.inner.Close()
	return nil
}
