package dashboard

import (
	"crypto/sha1"
	"encoding/hex"
	"sync"
	"time"
)

// RenderCache memoizes rendered chart markup keyed by series content.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// ChartCache keeps rendered charts for a fixed TTL. A new timeseries yields a
// new key, so stale series are dropped on the next write instead of lingering.
type ChartCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cachedChart
}

type cachedChart struct {
	markup  string
	expires time.Time
}

// NewChartCache builds a cache with the provided TTL. A non-positive TTL
// disables caching.
func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedChart),
	}
}

// GetOrRender returns the cached markup for key or renders and stores it.
// Render errors are never cached.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if c == nil || c.ttl <= 0 {
		return render()
	}
	now := c.now()

	c.mu.Lock()
	entry, ok := c.entries[key]
	c.mu.Unlock()
	if ok && now.Before(entry.expires) {
		return entry.markup, nil
	}

	markup, err := render()
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cachedChart{markup: markup, expires: now.Add(c.ttl)}
	c.mu.Unlock()
	return markup, nil
}

// Len reports the number of stored entries, expired or not.
func (c *ChartCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func contentHash(b []byte) string {
	if len(b) == 0 {
		return "empty"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
