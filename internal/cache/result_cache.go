// Package cache keeps medicine lookup results in a key-value store for a fixed TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"

	"github.com/bosocmputer/medicine_ocr_gemini/configs"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/medicine"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/metrics"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/storage"
)

// entry is the persisted form; timestamp is epoch milliseconds
type entry struct {
	Data      *medicine.Record `json:"data"`
	Timestamp int64            `json:"timestamp"`
}

// ResultCache maps normalized medicine names to records.
// Reads fail open and writes never return errors: a broken store only costs provider calls.
type ResultCache struct {
	store  storage.Store
	ttl    time.Duration
	prefix string
	now    func() time.Time
}

// Option customizes a ResultCache
type Option func(*ResultCache)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *ResultCache) { c.now = now }
}

// NewResultCache wraps store; ttl <= 0 and an empty prefix fall back to the defaults
func NewResultCache(store storage.Store, ttl time.Duration, prefix string, opts ...Option) *ResultCache {
	if ttl <= 0 {
		ttl = configs.DefaultCacheTTL
	}
	if prefix == "" {
		prefix = configs.DefaultCacheKeyPrefix
	}

	c := &ResultCache{
		store:  store,
		ttl:    ttl,
		prefix: prefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the store key for a medicine name.
// A Caser carries state, so each call folds with a fresh one.
func (c *ResultCache) Key(name string) string {
	return c.prefix + cases.Fold().String(strings.TrimSpace(name))
}

// TTL returns the configured time-to-live
func (c *ResultCache) TTL() time.Duration {
	return c.ttl
}

// Get returns a fresh record for name. Missing, expired, unreadable or corrupt
// entries are all reported as a miss; expired entries are deleted on the way out.
func (c *ResultCache) Get(ctx context.Context, name string) (*medicine.Record, bool) {
	key := c.Key(name)
	log := logrus.WithField("key", key)

	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			metrics.CacheLookups.WithLabelValues("miss").Inc()
		} else {
			metrics.CacheLookups.WithLabelValues("error").Inc()
			log.WithError(err).Warn("cache read failed, treating as miss")
		}
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil || e.Data == nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		log.WithError(err).Warn("corrupt cache entry, treating as miss")
		return nil, false
	}

	stored := time.UnixMilli(e.Timestamp)
	age := c.now().Sub(stored)
	if age > c.ttl {
		metrics.CacheLookups.WithLabelValues("expired").Inc()
		log.WithField("stored", humanize.Time(stored)).Debug("cache entry expired")
		if err := c.store.Delete(ctx, key); err != nil {
			log.WithError(err).Warn("failed to delete expired cache entry")
		}
		return nil, false
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	log.WithField("stored", humanize.Time(stored)).Debug("cache hit")

	rec := e.Data
	rec.Cached = false
	return rec, true
}

// Put stores rec under name with the current time. Failures are logged and dropped.
func (c *ResultCache) Put(ctx context.Context, name string, rec *medicine.Record) {
	if rec == nil {
		return
	}

	clean := rec.Clone()
	clean.Cached = false

	raw, err := json.Marshal(entry{Data: clean, Timestamp: c.now().UnixMilli()})
	if err != nil {
		logrus.WithError(err).Warn("failed to encode cache entry")
		metrics.CacheWriteFailures.Inc()
		return
	}

	key := c.Key(name)
	if err := c.store.Set(ctx, key, raw); err != nil {
		metrics.CacheWriteFailures.Inc()
		logrus.WithError(err).WithFields(logrus.Fields{
			"key":  key,
			"size": humanize.Bytes(uint64(len(raw))),
		}).Warn("cache write failed, continuing without caching")
	}
}

// ClearAll removes every entry under the cache prefix and returns how many were removed.
// Keys belonging to other prefixes are left alone.
func (c *ResultCache) ClearAll(ctx context.Context) int {
	keys, err := c.store.Keys(ctx, c.prefix)
	if err != nil {
		logrus.WithError(err).Warn("failed to list cache keys")
		return 0
	}

	removed := 0
	for _, key := range keys {
		if err := c.store.Delete(ctx, key); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("failed to delete cache entry")
			continue
		}
		removed++
	}

	logrus.WithField("removed", removed).Info("🗑️ Cache cleared")
	return removed
}

// Count reports how many keys exist under the cache prefix, expired ones included
func (c *ResultCache) Count(ctx context.Context) int {
	keys, err := c.store.Keys(ctx, c.prefix)
	if err != nil {
		logrus.WithError(err).Warn("failed to list cache keys")
		return 0
	}
	return len(keys)
}
