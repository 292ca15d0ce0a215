package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashboard "github.com/goliatone/go-store-dashboard/components/dashboard"
)

var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestMockClientEmptyBeforeSeed(t *testing.T) {
	client := NewMockClient(WithMockClock(fixedClock))
	overview, err := client.FetchOverview(context.Background())
	require.NoError(t, err)

	assert.Zero(t, overview.TodayRevenue)
	assert.Zero(t, overview.MTDOrders)
	assert.Zero(t, overview.AvgOrderValue)
	assert.Empty(t, overview.TopProducts)
	assert.Empty(t, overview.Segments)
	require.Len(t, overview.Timeseries, 14)
	assert.Equal(t, "2024-03-02", overview.Timeseries[0].Date)
	assert.Equal(t, "2024-03-15", overview.Timeseries[13].Date)
}

func TestMockClientSeedAggregates(t *testing.T) {
	client := NewMockClient(WithMockClock(fixedClock))
	ctx := context.Background()
	require.NoError(t, client.Seed(ctx))

	overview, err := client.FetchOverview(ctx)
	require.NoError(t, err)

	assert.Positive(t, overview.TodayOrders)
	assert.Positive(t, overview.TodayRevenue)
	assert.GreaterOrEqual(t, overview.MTDOrders, overview.TodayOrders)
	assert.GreaterOrEqual(t, overview.MTDRevenue, overview.TodayRevenue)
	assert.InDelta(t, overview.MTDRevenue/float64(overview.MTDOrders), overview.AvgOrderValue, 0.01)
	assert.Equal(t, overview.TodayRevenue, overview.Timeseries[len(overview.Timeseries)-1].Revenue)

	require.NotEmpty(t, overview.TopProducts)
	assert.LessOrEqual(t, len(overview.TopProducts), 5)
	for i := 1; i < len(overview.TopProducts); i++ {
		assert.GreaterOrEqual(t, overview.TopProducts[i-1].Revenue, overview.TopProducts[i].Revenue)
	}

	total := 0
	order := map[string]int{"new": 0, "returning": 1, "vip": 2, "inactive": 3}
	last := -1
	for _, segment := range overview.Segments {
		total += segment.Count
		idx, ok := order[segment.Segment]
		require.True(t, ok, "unexpected segment %s", segment.Segment)
		assert.Greater(t, idx, last)
		last = idx
	}
	assert.Equal(t, 40, total)

	fetches, seeds := client.Calls()
	assert.Equal(t, 1, fetches)
	assert.Equal(t, 1, seeds)
}

func TestMockClientSeedIsDeterministic(t *testing.T) {
	ctx := context.Background()
	a := NewMockClient(WithMockClock(fixedClock), WithMockSeed(7))
	b := NewMockClient(WithMockClock(fixedClock), WithMockSeed(7))
	require.NoError(t, a.Seed(ctx))
	require.NoError(t, b.Seed(ctx))

	first, err := a.FetchOverview(ctx)
	require.NoError(t, err)
	second, err := b.FetchOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMockClientInjectedFailures(t *testing.T) {
	ctx := context.Background()
	client := NewMockClient(WithMockClock(fixedClock))

	client.FailSeed(&dashboard.HTTPStatusError{Op: dashboard.OpSeed, StatusCode: 500})
	require.Error(t, client.Seed(ctx))
	client.FailSeed(nil)
	require.NoError(t, client.Seed(ctx))

	boom := errors.New("boom")
	client.FailFetch(boom)
	_, err := client.FetchOverview(ctx)
	require.ErrorIs(t, err, boom)

	_, seeds := client.Calls()
	assert.Equal(t, 2, seeds)
}

func TestMockClientFixture(t *testing.T) {
	fixture := dashboard.AnalyticsOverview{TodayRevenue: 100, TodayOrders: 2, TopProducts: []dashboard.TopProduct{{Title: "Cap"}}}
	client := NewMockClient(WithMockOverview(fixture))
	overview, err := client.FetchOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixture, overview)

	overview.TopProducts[0].Title = "changed"
	again, err := client.FetchOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Cap", again.TopProducts[0].Title)
}

func TestMockClientHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := NewMockClient()

	var transportErr *dashboard.TransportError
	_, err := client.FetchOverview(ctx)
	require.True(t, errors.As(err, &transportErr))
	require.True(t, errors.As(client.Seed(ctx), &transportErr))
	_, err = client.Ping(ctx)
	require.True(t, errors.As(err, &transportErr))
}

func TestCustomerSegment(t *testing.T) {
	assert.Equal(t, "inactive", customerSegment(0))
	assert.Equal(t, "new", customerSegment(1))
	assert.Equal(t, "returning", customerSegment(4))
	assert.Equal(t, "vip", customerSegment(8))
}
