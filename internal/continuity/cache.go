package continuity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zapponejosh/verbenas-api/internal/calendar"
)

// Cache stores computed reports by query fingerprint.
type Cache interface {
	Get(ctx context.Context, key string) (*Report, bool, error)
	Set(ctx context.Context, key string, report *Report) error
}

// Fingerprint identifies a query by its full input: the target period and
// the event snapshot in source order (order matters for tie-breaking).
func Fingerprint(events []Event, year int, month time.Month) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d|%d\n", year, int(month))
	for _, e := range events {
		fmt.Fprintf(h, "%d|%s|%s|%s|%s|%s|%s\n",
			e.ID,
			calendar.FormatDay(e.Date),
			e.Municipality,
			e.Venue,
			strings.Join(e.Performers, ","),
			e.Type,
			e.StartTime,
		)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// =============================================================================
// In-memory cache
// =============================================================================

type memoryEntry struct {
	report  Report
	expires time.Time
}

// MemoryCache is a process-local Cache with a fixed TTL.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an in-memory cache whose entries live for ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns a copy of the cached report for key.
func (c *MemoryCache) Get(_ context.Context, key string) (*Report, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expires) {
		delete(c.entries, key)
		return nil, false, nil
	}
	report := entry.report
	return &report, true, nil
}

// Set stores report under key and drops expired entries.
func (c *MemoryCache) Set(_ context.Context, key string, report *Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, entry := range c.entries {
		if !now.Before(entry.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = memoryEntry{report: *report, expires: now.Add(c.ttl)}
	return nil
}

// Len returns the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// =============================================================================
// Redis cache
// =============================================================================

const redisKeyPrefix = "verbenas:continuity:"

// RedisCache stores reports as JSON in Redis so several API instances share
// one cache.
type RedisCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{redis: client, ttl: ttl}
}

// Get fetches and decodes the report stored under key.
func (c *RedisCache) Get(ctx context.Context, key string) (*Report, bool, error) {
	data, err := c.redis.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached report: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached report: %w", err)
	}
	return &report, true, nil
}

// Set encodes report and stores it with the cache TTL.
func (c *RedisCache) Set(ctx context.Context, key string, report *Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := c.redis.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached report: %w", err)
	}
	return nil
}
