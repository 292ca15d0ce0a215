package dashboard

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	core "github.com/goliatone/go-store-dashboard/components/dashboard"
	"github.com/goliatone/go-store-dashboard/pkg/analytics"
	"github.com/goliatone/go-store-dashboard/pkg/config"
)

func demoConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load(config.Options{Overrides: map[string]any{"demo": true}})
	require.NoError(t, err)
	return cfg
}

func TestNewDemoAppLoadsAndRenders(t *testing.T) {
	app, err := New(demoConfig(t), Options{Logger: zap.NewNop(), Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)
	_, ok := app.Client.(*analytics.MockClient)
	require.True(t, ok, "demo mode should use the in-memory backend")

	ctx := context.Background()
	require.NoError(t, app.Controller.SeedDemoData(ctx))
	state := app.Controller.Snapshot()
	require.True(t, state.HasAnalytics())
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)

	var buf bytes.Buffer
	require.NoError(t, app.Controller.RenderTemplate(ctx, &buf))
	assert.Contains(t, buf.String(), "Store SaaS Dashboard")
	assert.Contains(t, buf.String(), "Revenue Today")
	assert.Contains(t, buf.String(), "<svg")
}

func TestNewUsesHTTPClientOutsideDemo(t *testing.T) {
	cfg, err := config.Load(config.Options{Overrides: map[string]any{"backend.url": "http://backend.test"}})
	require.NoError(t, err)

	client, err := NewClient(cfg)
	require.NoError(t, err)
	httpClient, ok := client.(*analytics.HTTPClient)
	require.True(t, ok)
	assert.Equal(t, "http://backend.test", httpClient.BaseURL())
}

func TestNewChartRendererSelectsKind(t *testing.T) {
	svg, err := NewChartRenderer(config.ChartConfig{Renderer: "svg"})
	require.NoError(t, err)
	assert.IsType(t, &core.SVGChartRenderer{}, svg)

	echarts, err := NewChartRenderer(config.ChartConfig{Renderer: "echarts", CacheTTL: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &core.EChartsChartRenderer{}, echarts)

	_, err = NewChartRenderer(config.ChartConfig{Renderer: "canvas"})
	require.Error(t, err)
}

func TestLinksPrefixBasePath(t *testing.T) {
	assert.Equal(t, core.DefaultPageLinks(), Links(""))
	links := Links("/store")
	assert.Equal(t, "/store/", links.Dashboard)
	assert.Equal(t, "/store/refresh", links.Refresh)
	assert.Equal(t, "/store/seed", links.Seed)
	assert.Equal(t, "/store/test", links.Health)
}
