// Package cache is a small JSON-file backed TTL cache for remote responses.
// It keeps marketplace searches from hitting the API again within the TTL.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Entry is one cached value with its expiry bookkeeping.
type Entry struct {
	Data     json.RawMessage `json:"data"`
	StoredAt time.Time       `json:"stored_at"`
	TTL      time.Duration   `json:"ttl"`
}

func (e Entry) expired(now time.Time) bool {
	return e.TTL > 0 && now.Sub(e.StoredAt) > e.TTL
}

// Cache stores JSON-encoded values by key. An empty path keeps entries in
// memory only.
type Cache struct {
	path    string
	entries map[string]Entry
	mu      sync.RWMutex
	now     func() time.Time
}

// New opens the cache at path, loading any existing entries. A corrupt file
// is ignored and overwritten on the next Put.
func New(path string) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: make(map[string]Entry),
		now:     time.Now,
	}
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("read cache: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &c.entries); err != nil {
			c.entries = make(map[string]Entry)
		}
	}
	return c, nil
}

// Get decodes the value for key into target. Expired entries are dropped
// and reported as missing.
func (c *Cache) Get(key string, target any) (bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if entry.expired(c.now()) {
		c.mu.Lock()
		if e, exists := c.entries[key]; exists && e.expired(c.now()) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return false, nil
	}

	if err := json.Unmarshal(entry.Data, target); err != nil {
		return false, fmt.Errorf("unmarshal cache entry %q: %w", key, err)
	}
	return true, nil
}

// Put stores value under key. A zero ttl never expires.
func (c *Cache) Put(key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}

	c.mu.Lock()
	c.entries[key] = Entry{Data: data, StoredAt: c.now(), TTL: ttl}
	c.mu.Unlock()

	return c.save()
}

// Remove deletes a single entry.
func (c *Cache) Remove(key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return c.save()
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.mu.Unlock()
	return c.save()
}

// Prune drops expired entries and returns how many were removed.
func (c *Cache) Prune() (int, error) {
	now := c.now()
	removed := 0

	c.mu.Lock()
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()

	if removed == 0 {
		return 0, nil
	}
	return removed, c.save()
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) save() error {
	if c.path == "" {
		return nil
	}
	if dir := filepath.Dir(c.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}

	c.mu.RLock()
	data, err := json.MarshalIndent(c.entries, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	return os.WriteFile(c.path, data, 0644)
}

// BuildKey joins key parts with "|".
func BuildKey(parts ...string) string {
	return strings.Join(parts, "|")
}

// SearchKey identifies a marketplace search. Queries differing only in case
// or surrounding spaces share an entry.
func SearchKey(site, category, query string) string {
	return BuildKey("search", site, category, strings.ToLower(strings.TrimSpace(query)))
}

// GameListKey identifies a scraped console game-list page.
func GameListKey(console string) string {
	return BuildKey("gamelist", console)
}
