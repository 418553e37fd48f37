package ipacache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/hyphipa/internal/logging"
)

// ErrCorrupt is returned when a persisted cache cannot be parsed.
var ErrCorrupt = errors.New("corrupt ipa cache")

// Store persists cache contents.
type Store interface {
	// Load returns the persisted entries. A store that does not exist yet
	// yields an empty map.
	Load() (map[string]string, error)
	// Save replaces the persisted entries with entries.
	Save(entries map[string]string) error
	// Path names the underlying file for messages.
	Path() string
}

// Cache maps stripped words to their transcription. It is safe for
// concurrent use.
type Cache struct {
	store  Store
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[string]string

	// version counts inserts; saved is the version last persisted.
	version atomic.Uint64
	saved   atomic.Uint64
}

// New creates an empty cache persisted to store, which may be nil for a
// purely in-memory cache.
func New(store Store, logger *zap.Logger) *Cache {
	return &Cache{
		store:   store,
		logger:  logging.OrNop(logger).Named("ipacache"),
		entries: make(map[string]string),
	}
}

// Load creates a cache filled from store.
func Load(store Store, logger *zap.Logger) (*Cache, error) {
	c := New(store, logger)
	if store == nil {
		return c, nil
	}
	entries, err := store.Load()
	if err != nil {
		return nil, err
	}
	if entries != nil {
		c.entries = entries
	}
	c.logger.Info("loaded ipa cache",
		zap.String("path", store.Path()),
		zap.Int("entries", len(c.entries)))
	return c, nil
}

// Lookup returns the transcription cached for word.
func (c *Cache) Lookup(word string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ipa, ok := c.entries[word]
	return ipa, ok
}

// Insert stores the transcription of word. The last writer wins.
func (c *Cache) Insert(word, ipa string) {
	c.mu.Lock()
	c.entries[word] = ipa
	c.mu.Unlock()
	c.version.Add(1)
}

// Len returns the number of cached words.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Snapshot returns a copy of all entries.
func (c *Cache) Snapshot() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// Invert returns a transcription to word map. When several words share a
// transcription an arbitrary one of them is kept.
func (c *Cache) Invert() map[string]string {
	return invert(c.Snapshot())
}

func invert(entries map[string]string) map[string]string {
	out := make(map[string]string, len(entries))
	for word, ipa := range entries {
		out[ipa] = word
	}
	return out
}

// Save persists a snapshot of the cache. It is a no-op without a store.
func (c *Cache) Save() error {
	if c.store == nil {
		return nil
	}
	version := c.version.Load()
	snapshot := c.Snapshot()
	if err := c.store.Save(snapshot); err != nil {
		return fmt.Errorf("save ipa cache %s: %w", c.store.Path(), err)
	}
	c.saved.Store(version)
	c.logger.Debug("saved ipa cache",
		zap.String("path", c.store.Path()),
		zap.Int("entries", len(snapshot)))
	return nil
}

// Dirty reports whether entries were inserted since the last save.
func (c *Cache) Dirty() bool {
	return c.version.Load() != c.saved.Load()
}

// Autosave saves the cache every interval while it has unsaved entries,
// until ctx is cancelled. Failures are handed to onError and do not stop
// the loop.
func (c *Cache) Autosave(ctx context.Context, interval time.Duration, onError func(error)) {
	if interval <= 0 || c.store == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !c.Dirty() {
				continue
			}
			if err := c.Save(); err != nil && onError != nil {
				onError(err)
			}
		}
	}
}
