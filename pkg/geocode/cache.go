package geocode

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// cached wraps a Provider with an in-memory result cache. Negative results
// are cached too, so a location that cannot be placed is looked up once per
// run, not once per lead.
type cached struct {
	inner Provider

	mu      sync.RWMutex
	results map[string]cacheEntry
}

type cacheEntry struct {
	coord    Coordinate
	resolved bool
}

// WithCache wraps a provider with per-run memoization.
func WithCache(inner Provider) Provider {
	return &cached{
		inner:   inner,
		results: make(map[string]cacheEntry),
	}
}

func (c *cached) key(q Query) string {
	return strings.ToLower(strings.TrimSpace(q.Location)) + "|" +
		strings.ToLower(strings.TrimSpace(q.State)) + "|" +
		strings.ToLower(strings.TrimSpace(q.Description))
}

func (c *cached) Resolve(ctx context.Context, q Query) (Coordinate, error) {
	key := c.key(q)

	c.mu.RLock()
	entry, ok := c.results[key]
	c.mu.RUnlock()
	if ok {
		if !entry.resolved {
			return Coordinate{}, ErrUnresolved
		}
		return entry.coord, nil
	}

	coord, err := c.inner.Resolve(ctx, q)
	switch {
	case err == nil:
		c.store(key, cacheEntry{coord: coord, resolved: true})
		return coord, nil
	case err == ErrUnresolved:
		c.store(key, cacheEntry{})
		return Coordinate{}, ErrUnresolved
	default:
		// Transient errors are not cached.
		return Coordinate{}, err
	}
}

func (c *cached) store(key string, entry cacheEntry) {
	c.mu.Lock()
	c.results[key] = entry
	c.mu.Unlock()
	zap.L().Debug("geocode cache store", zap.String("key", key), zap.Bool("resolved", entry.resolved))
}
