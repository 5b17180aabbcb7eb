package storage

import (
	"context"
	"fmt"

	"github.com/bosocmputer/medicine_ocr_gemini/configs"
)

// New opens the store selected by cfg.Backend
func New(ctx context.Context, cfg configs.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case configs.BackendMemory:
		return NewMemoryStore(cfg.MaxEntries), nil
	case configs.BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	case configs.BackendMongo:
		return NewMongoStore(ctx, MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDB,
			Collection: cfg.MongoCollection,
		})
	case configs.BackendValkey:
		return NewValkeyStore(ctx, ValkeyConfig{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			DB:       cfg.ValkeyDB,
		})
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}
}
