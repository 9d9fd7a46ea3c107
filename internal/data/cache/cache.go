// Package cache keeps analysis records keyed by a hash of the analyzed
// content, in memory and optionally in a sqlite file.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"codeshape/internal/core/ports"
	"codeshape/internal/engine/model"
	"codeshape/internal/shared/observability"
)

// Tier and result labels for CacheLookupsTotal.
const (
	TierMemory = "memory"
	TierDisk   = "disk"

	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

// keyVersion changes whenever extraction output changes shape, so stale
// disk rows stop matching.
const keyVersion = "1"

// Key derives the cache key for text analyzed as language/dialect. The file
// name is deliberately not part of it: identical content under another name
// hits the same entry.
func Key(language, dialect, text string) string {
	h := sha256.New()
	for _, part := range []string{keyVersion, language, dialect} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

type Cache struct {
	mem    *LRU[string, *model.Record]
	store  *Store
	logger *slog.Logger
}

// New builds a cache with an in-memory tier of the given capacity. store may
// be nil for a memory-only cache.
func New(capacity int, store *Store, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		mem:    NewLRU[string, *model.Record](capacity),
		store:  store,
		logger: logger,
	}
}

// Get looks key up in memory, then on disk. Hits are returned as a copy whose
// File is set to file.
func (c *Cache) Get(key, file string) (*model.Record, bool) {
	if rec, ok := c.mem.Get(key); ok {
		observability.CacheLookupsTotal.WithLabelValues(TierMemory, ResultHit).Inc()
		return withFile(rec, file), true
	}
	observability.CacheLookupsTotal.WithLabelValues(TierMemory, ResultMiss).Inc()

	if c.store == nil {
		return nil, false
	}

	rec, ok, err := c.store.Get(key)
	switch {
	case err != nil:
		observability.CacheLookupsTotal.WithLabelValues(TierDisk, ResultError).Inc()
		c.logger.Warn("cache read failed", "path", c.store.Path(), "error", err)
		return nil, false
	case !ok:
		observability.CacheLookupsTotal.WithLabelValues(TierDisk, ResultMiss).Inc()
		return nil, false
	}
	observability.CacheLookupsTotal.WithLabelValues(TierDisk, ResultHit).Inc()
	c.mem.Put(key, rec)
	return withFile(rec, file), true
}

// Put stores rec under key in every tier. Disk failures are logged and
// otherwise ignored; the memory tier still holds the entry.
func (c *Cache) Put(key string, rec *model.Record) {
	if rec == nil {
		return
	}
	c.mem.Put(key, rec)
	if c.store == nil {
		return
	}
	if err := c.store.Put(key, rec); err != nil {
		c.logger.Warn("cache write failed", "path", c.store.Path(), "error", err)
	}
}

// Stats counts entries in both tiers. A failed disk count is reported in
// DiskError rather than returned.
func (c *Cache) Stats() ports.CacheStats {
	st := ports.CacheStats{Entries: c.mem.Len(), Capacity: c.mem.Cap()}
	if c.store == nil {
		return st
	}
	st.DiskEnabled = true
	n, err := c.store.Count()
	if err != nil {
		st.DiskError = err.Error()
		return st
	}
	st.DiskEntries = n
	return st
}

func (c *Cache) Close() error {
	return c.store.Close()
}

func withFile(rec *model.Record, file string) *model.Record {
	out := *rec
	out.File = file
	return &out
}
