package timetable

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/albapepper/waktu/internal/kv"
)

// CacheKey is the store key the current month is persisted under.
const CacheKey = "waktusolat.gps.month.cache.v1"

// Cache holds exactly one Month in memory and mirrors it to a kv.Store.
// Lookups never touch the store; call Restore once before the first lookup.
type Cache struct {
	store  kv.Store
	loc    *time.Location
	logger *slog.Logger

	mu       sync.RWMutex
	month    *Month
	restored bool
}

// NewCache creates a cache backed by store. Instants restored from the store
// are placed in loc.
func NewCache(store kv.Store, loc *time.Location, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Cache{store: store, loc: loc, logger: logger}
}

// Restore loads the persisted month if nothing has been loaded or stored yet.
// A missing, unreadable or undecodable record leaves the cache empty.
func (c *Cache) Restore(ctx context.Context) {
	c.mu.RLock()
	done := c.restored
	c.mu.RUnlock()
	if done {
		return
	}

	data, ok, err := c.store.Get(ctx, CacheKey)
	if err != nil {
		c.logger.Warn("Timetable cache restore failed", "error", err)
		return
	}

	var month *Month
	if ok {
		month, err = Decode(data, c.loc)
		if err != nil {
			c.logger.Warn("Discarding undecodable cached timetable", "error", err)
			month = nil
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.restored {
		return
	}
	c.month = month
	c.restored = true
	if month != nil {
		c.logger.Debug("Timetable cache restored",
			"zone", month.Zone, "year", month.Year, "month", int(month.Month), "days", len(month.Days))
	}
}

// Day returns the cached timetable for d. It reports false when no month is
// cached, the cached month is a different one, or the day is absent.
func (c *Cache) Day(d Date) (DayTimetable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.month.Day(d)
}

// Month returns the cached month, or nil.
func (c *Cache) Month() *Month {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.month
}

// Store replaces the cached month unconditionally and persists it. The
// in-memory copy is replaced even when persisting fails.
func (c *Cache) Store(ctx context.Context, m *Month) error {
	if m == nil {
		return fmt.Errorf("store timetable: nil month")
	}

	c.mu.Lock()
	c.month = m
	c.restored = true
	c.mu.Unlock()

	data, err := Encode(m)
	if err != nil {
		return fmt.Errorf("encode timetable: %w", err)
	}
	if err := c.store.Set(ctx, CacheKey, data); err != nil {
		return fmt.Errorf("persist timetable: %w", err)
	}
	return nil
}
