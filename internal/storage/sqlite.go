package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// cacheRow is the single table backing SQLiteStore
type cacheRow struct {
	CacheKey  string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

func (cacheRow) TableName() string { return "cache_entries" }

// SQLiteStore is the default local persistent store, one row per key
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (or creates) the database file and migrates the table
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite cache %s: %w", path, err)
	}

	if err := db.AutoMigrate(&cacheRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite cache: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var row cacheRow
	err := s.db.WithContext(ctx).Where("cache_key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cache row: %w", err)
	}
	return row.Value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	row := cacheRow{CacheKey: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "database or disk is full") {
			return fmt.Errorf("%w: %v", ErrStoreFull, err)
		}
		return fmt.Errorf("failed to write cache row: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("cache_key = ?", key).Delete(&cacheRow{}).Error; err != nil {
		return fmt.Errorf("failed to delete cache row: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	err := s.db.WithContext(ctx).Model(&cacheRow{}).
		Where(`cache_key LIKE ? ESCAPE '\'`, escaped+"%").
		Pluck("cache_key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cache keys: %w", err)
	}
	return keys, nil
}

// Close releases the underlying *sql.DB
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
