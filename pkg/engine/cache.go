package engine

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"
)

// Default cache TTLs.
const (
	ResultCacheTTL    = time.Hour
	TeamScoreCacheTTL = 30 * time.Minute
)

// Cache is the key-value collaborator used for comparison results and
// per-team scores. Implementations must treat a miss as (nil, false,
// nil), not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// ComparisonKey builds the order-independent cache key for a matchup.
// Team order never changes the key; sport, teams, and date are
// normalized before hashing.
func ComparisonKey(sport, team1, team2, date string) string {
	teams := []string{strings.ToLower(team1), strings.ToLower(team2)}
	sort.Strings(teams)

	payload, _ := json.Marshal(map[string]string{
		"sport": strings.ToLower(sport),
		"team1": teams[0],
		"team2": teams[1],
		"date":  strings.ToLower(date),
	})
	sum := md5.Sum(payload)
	return "compare:" + hex.EncodeToString(sum[:])
}

// TeamScoreKey builds the cache key for one team's strength score.
func TeamScoreKey(sport, team string) string {
	sum := md5.Sum([]byte(strings.ToLower(sport) + ":" + strings.ToLower(team)))
	return "teamscore:" + hex.EncodeToString(sum[:])
}

// MemoryCache is an in-process Cache with per-entry TTL. Expired
// entries are dropped lazily on read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache returns an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{value: value, expiresAt: c.now().Add(ttl)}
	return nil
}

// Clear implements Cache.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
