// Package httpcache provides a TTL cache for external API responses, backed
// by otter in memory with optional gob persistence to disk. Each call site
// chooses its own TTL: geocoding results live for a day, weather for half an
// hour, traffic for ten minutes.
package httpcache

import (
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/maypok86/otter/v2"
)

// CacheEntry is one cached API response.
type CacheEntry struct {
	ExpiresAt time.Time `json:"expires_at"`
	Data      []byte    `json:"data"`
}

// Cache stores API responses keyed by URL + request payload.
type Cache struct {
	cache      otter.Cache[string, CacheEntry]
	logger     *slog.Logger
	saveCancel context.CancelFunc
	dir        string
	saveWg     sync.WaitGroup
	mu         sync.RWMutex
}

// maxTTL bounds how long otter itself keeps entries; individual entries
// carry their own, usually much shorter, expiry.
const maxTTL = 24 * time.Hour

func newCache(logger *slog.Logger) *Cache {
	cache := otter.Must(&otter.Options[string, CacheEntry]{
		MaximumSize:      100_000,
		InitialCapacity:  1_000,
		ExpiryCalculator: otter.ExpiryWriting[string, CacheEntry](maxTTL),
	})
	return &Cache{cache: *cache, logger: logger}
}

// NewMemoryOnlyCache creates a cache that is never persisted, for server use.
func NewMemoryOnlyCache(logger *slog.Logger) *Cache {
	return newCache(logger)
}

// NewDiskCache creates a cache that loads from and periodically saves to a
// gob file under dir, for CLI use across invocations.
func NewDiskCache(ctx context.Context, dir string, logger *slog.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	c := newCache(logger)
	c.dir = dir
	if err := c.loadFromDisk(); err != nil {
		logger.Warn("failed to load cache from disk", "error", err)
	}
	logger.Info("cache initialized", "dir", dir, "entries_loaded", c.cache.EstimatedSize())
	c.startPeriodicSave(ctx)
	return c, nil
}

func cacheKey(url string, payload []byte) string {
	h := sha256.New()
	h.Write([]byte(url))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// APICall looks up a cached response for the given URL and request payload.
func (c *Cache) APICall(url string, payload []byte) ([]byte, bool) {
	entry, found := c.cache.GetIfPresent(cacheKey(url, payload))
	if !found {
		c.logger.Debug("cache miss", "url", url, "reason", "not_found")
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		c.logger.Debug("cache miss", "url", url, "reason", "expired", "expired_at", entry.ExpiresAt)
		c.cache.Invalidate(cacheKey(url, payload))
		return nil, false
	}
	return entry.Data, true
}

// SetAPICall caches a response with the default TTL.
func (c *Cache) SetAPICall(url string, payload []byte, data []byte) error {
	return c.SetAPICallTTL(url, payload, data, maxTTL)
}

// SetAPICallTTL caches a response for the given TTL.
func (c *Cache) SetAPICallTTL(url string, payload []byte, data []byte, ttl time.Duration) error {
	if ttl > maxTTL {
		ttl = maxTTL
	}
	entry := CacheEntry{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	}
	c.cache.Set(cacheKey(url, payload), entry)
	c.logger.Debug("cache set", "url", url, "expires_at", entry.ExpiresAt, "size", len(data))
	return nil
}

func (c *Cache) loadFromDisk() error {
	cachePath := filepath.Join(c.dir, "trip-cache.gob")

	file, err := os.Open(cachePath)
	if err != nil {
		if os.IsNotExist(err) {
			c.logger.Info("no existing cache file found", "path", cachePath)
			return nil
		}
		return fmt.Errorf("opening cache file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			c.logger.Debug("failed to close cache file", "error", closeErr)
		}
	}()

	var entries map[string]CacheEntry
	if err := gob.NewDecoder(file).Decode(&entries); err != nil {
		return fmt.Errorf("decoding cache file: %w", err)
	}

	now := time.Now()
	valid := 0
	for key, entry := range entries {
		if now.Before(entry.ExpiresAt) {
			c.cache.Set(key, entry)
			valid++
		}
	}
	c.logger.Info("loaded cache from disk", "path", cachePath,
		"total_entries", len(entries), "valid_entries", valid)
	return nil
}

func (c *Cache) saveToDisk() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cachePath := filepath.Join(c.dir, "trip-cache.gob")
	tempPath := cachePath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	defer func() {
		if removeErr := os.Remove(tempPath); removeErr != nil && !os.IsNotExist(removeErr) {
			c.logger.Debug("failed to remove temp file", "error", removeErr)
		}
	}()

	entries := make(map[string]CacheEntry)
	now := time.Now()
	c.cache.All()(func(key string, entry CacheEntry) bool {
		if now.Before(entry.ExpiresAt) {
			entries[key] = entry
		}
		return true
	})

	if err := gob.NewEncoder(file).Encode(entries); err != nil {
		return fmt.Errorf("encoding cache to file: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("syncing cache file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing cache file: %w", err)
	}
	if err := os.Rename(tempPath, cachePath); err != nil {
		return fmt.Errorf("replacing cache file: %w", err)
	}
	c.logger.Info("cache saved to disk", "entries", len(entries), "path", cachePath)
	return nil
}

func (c *Cache) startPeriodicSave(ctx context.Context) {
	saveCtx, cancel := context.WithCancel(ctx)
	c.saveCancel = cancel

	c.saveWg.Add(1)
	go func() {
		defer c.saveWg.Done()
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-saveCtx.Done():
				return
			case <-ticker.C:
				if err := c.saveToDisk(); err != nil {
					c.logger.Error("periodic cache save failed", "error", err)
				}
			}
		}
	}()
}

// Close stops background saving and flushes the cache to disk, if the cache
// is disk-backed.
func (c *Cache) Close() error {
	if c.saveCancel != nil {
		c.saveCancel()
	}
	c.saveWg.Wait()
	if c.dir == "" {
		return nil
	}
	if err := c.saveToDisk(); err != nil {
		c.logger.Error("final cache save failed", "error", err)
		return err
	}
	c.logger.Info("cache closed and saved to disk")
	return nil
}
