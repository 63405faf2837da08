package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// HistoryEntry is one stored comparison result.
type HistoryEntry struct {
	ID        string          `json:"id"`
	Sport     string          `json:"sport"`
	Team1     string          `json:"team1"`
	Team2     string          `json:"team2"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}

// HistoryFilter narrows Recent lookups. Zero values match everything.
type HistoryFilter struct {
	Team1 string
	Team2 string
}

func (f HistoryFilter) matches(e HistoryEntry) bool {
	return matchesTeam(e, f.Team1) && matchesTeam(e, f.Team2)
}

func matchesTeam(e HistoryEntry, team string) bool {
	if team == "" {
		return true
	}
	t := strings.ToLower(team)
	return strings.ToLower(e.Team1) == t || strings.ToLower(e.Team2) == t
}

// HistoryStore records past comparisons for later retrieval.
type HistoryStore interface {
	Add(ctx context.Context, sport, team1, team2 string, result json.RawMessage) (string, error)
	Recent(ctx context.Context, limit int, filter HistoryFilter) ([]HistoryEntry, error)
	Get(ctx context.Context, id string) (HistoryEntry, bool, error)
	Clear(ctx context.Context) (int, error)
}

// MemoryHistory is an in-process HistoryStore, bounded to keep memory
// flat on long-running instances.
type MemoryHistory struct {
	mu      sync.RWMutex
	entries []HistoryEntry
	max     int
	now     func() time.Time
}

// NewMemoryHistory returns a store retaining at most max entries,
// oldest evicted first. max <= 0 means 1000.
func NewMemoryHistory(max int) *MemoryHistory {
	if max <= 0 {
		max = 1000
	}
	return &MemoryHistory{max: max, now: time.Now}
}

// Add implements HistoryStore.
func (h *MemoryHistory) Add(_ context.Context, sport, team1, team2 string, result json.RawMessage) (string, error) {
	entry := HistoryEntry{
		ID:        uuid.NewString(),
		Sport:     sport,
		Team1:     team1,
		Team2:     team2,
		Result:    result,
		CreatedAt: h.now(),
	}

	h.mu.Lock()
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
	h.mu.Unlock()

	return entry.ID, nil
}

// Recent implements HistoryStore, newest first.
func (h *MemoryHistory) Recent(_ context.Context, limit int, filter HistoryFilter) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]HistoryEntry, 0, limit)
	for i := len(h.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if filter.matches(h.entries[i]) {
			out = append(out, h.entries[i])
		}
	}
	return out, nil
}

// Get implements HistoryStore.
func (h *MemoryHistory) Get(_ context.Context, id string) (HistoryEntry, bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := len(h.entries) - 1; i >= 0; i-- {
		if h.entries[i].ID == id {
			return h.entries[i], true, nil
		}
	}
	return HistoryEntry{}, false, nil
}

// Clear implements HistoryStore.
func (h *MemoryHistory) Clear(_ context.Context) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.entries)
	h.entries = nil
	return n, nil
}

// RedisHistory is a HistoryStore backed by a Redis sorted set ordered
// by creation time, with one JSON blob per entry.
type RedisHistory struct {
	client *redis.Client
	now    func() time.Time
}

const (
	historyIndexKey  = redisKeyPrefix + "history:index"
	historyEntryKey  = redisKeyPrefix + "history:entry:"
	historyRetention = 30 * 24 * time.Hour
)

// NewRedisHistory wraps an existing Redis client.
func NewRedisHistory(client *redis.Client) *RedisHistory {
	return &RedisHistory{client: client, now: time.Now}
}

// Add implements HistoryStore.
func (h *RedisHistory) Add(ctx context.Context, sport, team1, team2 string, result json.RawMessage) (string, error) {
	entry := HistoryEntry{
		ID:        uuid.NewString(),
		Sport:     sport,
		Team1:     team1,
		Team2:     team2,
		Result:    result,
		CreatedAt: h.now(),
	}

	blob, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("marshal history entry: %w", err)
	}

	pipe := h.client.Pipeline()
	pipe.Set(ctx, historyEntryKey+entry.ID, blob, historyRetention)
	pipe.ZAdd(ctx, historyIndexKey, redis.Z{
		Score:  float64(entry.CreatedAt.UnixNano()),
		Member: entry.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("store history entry: %w", err)
	}
	return entry.ID, nil
}

// Recent implements HistoryStore, newest first.
func (h *RedisHistory) Recent(ctx context.Context, limit int, filter HistoryFilter) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	// Over-fetch so that team filters can still fill the page.
	ids, err := h.client.ZRevRange(ctx, historyIndexKey, 0, int64(limit*4)).Result()
	if err != nil {
		return nil, fmt.Errorf("history index: %w", err)
	}

	out := make([]HistoryEntry, 0, limit)
	for _, id := range ids {
		entry, ok, err := h.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok || !filter.matches(entry) {
			continue
		}
		out = append(out, entry)
		if len(out) == limit {
			break
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Get implements HistoryStore.
func (h *RedisHistory) Get(ctx context.Context, id string) (HistoryEntry, bool, error) {
	blob, err := h.client.Get(ctx, historyEntryKey+id).Bytes()
	if err == redis.Nil {
		return HistoryEntry{}, false, nil
	}
	if err != nil {
		return HistoryEntry{}, false, fmt.Errorf("history get: %w", err)
	}

	var entry HistoryEntry
	if err := json.Unmarshal(blob, &entry); err != nil {
		return HistoryEntry{}, false, fmt.Errorf("history decode: %w", err)
	}
	return entry, true, nil
}

// Clear implements HistoryStore.
func (h *RedisHistory) Clear(ctx context.Context) (int, error) {
	ids, err := h.client.ZRange(ctx, historyIndexKey, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("history index: %w", err)
	}

	pipe := h.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, historyEntryKey+id)
	}
	pipe.Del(ctx, historyIndexKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("history clear: %w", err)
	}
	return len(ids), nil
}
