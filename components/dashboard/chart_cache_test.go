package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(ttl time.Duration) (*ChartCache, *time.Time) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	cache := NewChartCache(ttl)
	cache.now = func() time.Time { return now }
	return cache, &now
}

func TestChartCacheReusesMarkup(t *testing.T) {
	cache, _ := newTestCache(time.Minute)
	calls := 0
	render := func() (string, error) {
		calls++
		return "<svg/>", nil
	}

	first, err := cache.GetOrRender("revenue:a", render)
	require.NoError(t, err)
	second, err := cache.GetOrRender("revenue:a", render)
	require.NoError(t, err)

	assert.Equal(t, "<svg/>", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestChartCacheExpiresAndPrunes(t *testing.T) {
	cache, now := newTestCache(time.Minute)
	calls := 0
	render := func() (string, error) {
		calls++
		return "fresh", nil
	}

	_, err := cache.GetOrRender("revenue:a", render)
	require.NoError(t, err)
	*now = now.Add(2 * time.Minute)
	_, err = cache.GetOrRender("revenue:b", render)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, cache.Len(), "expired series should be dropped")
}

func TestChartCacheSkipsErrors(t *testing.T) {
	cache, _ := newTestCache(time.Minute)
	_, err := cache.GetOrRender("revenue:a", func() (string, error) { return "", errors.New("render failed") })
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestChartCacheDisabled(t *testing.T) {
	cache := NewChartCache(0)
	calls := 0
	render := func() (string, error) {
		calls++
		return "x", nil
	}
	_, _ = cache.GetOrRender("k", render)
	_, _ = cache.GetOrRender("k", render)
	assert.Equal(t, 2, calls)

	var nilCache *ChartCache
	out, err := nilCache.GetOrRender("k", render)
	require.NoError(t, err)
	assert.Equal(t, "x", out)
}
