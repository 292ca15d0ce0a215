package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultEChartsHeight = "240px"

// DefaultChartCacheTTL is used when no cache is injected.
const DefaultChartCacheTTL = 5 * time.Minute

// EChartsChartRenderer renders the revenue series as a go-echarts area chart.
type EChartsChartRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
	color      string
}

// EChartsOption customizes renderer behavior.
type EChartsOption func(*EChartsChartRenderer)

// WithChartCache injects a render cache. A nil cache disables caching.
func WithChartCache(cache RenderCache) EChartsOption {
	return func(r *EChartsChartRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the echarts theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsOption {
	return func(r *EChartsChartRenderer) {
		r.theme = theme
	}
}

// WithChartAssetsHost rewrites the assets host so the ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsOption {
	return func(r *EChartsChartRenderer) {
		r.assetsHost = host
	}
}

// NewEChartsChartRenderer builds an echarts renderer with a TTL cache.
func NewEChartsChartRenderer(options ...EChartsOption) *EChartsChartRenderer {
	r := &EChartsChartRenderer{
		cache: NewChartCache(DefaultChartCacheTTL),
		theme: types.ThemeWesteros,
		color: defaultChartStroke,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// RenderRevenueChart implements ChartRenderer.
func (r *EChartsChartRenderer) RenderRevenueChart(_ context.Context, points []TimeseriesPoint) (string, error) {
	if len(points) == 0 {
		return "", nil
	}
	render := func() (string, error) {
		return r.render(points)
	}
	if r.cache == nil {
		return render()
	}
	return r.cache.GetOrRender("revenue:"+r.theme+":"+seriesHash(points), render)
}

func (r *EChartsChartRenderer) render(points []TimeseriesPoint) (string, error) {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: defaultEChartsHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)
	line.SetXAxis(revenueLabels(points))
	line.AddSeries("Revenue", revenueLineData(points))
	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: r.color}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Color: r.color}),
	)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", fmt.Errorf("dashboard: render revenue chart: %w", err)
	}
	return buf.String(), nil
}

func revenueLabels(points []TimeseriesPoint) []string {
	labels := make([]string, len(points))
	for i, p := range points {
		labels[i] = strings.TrimSpace(p.Date)
	}
	return labels
}

func revenueLineData(points []TimeseriesPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		data[i] = opts.LineData{Name: p.Date, Value: p.Revenue}
	}
	return data
}

func seriesHash(points []TimeseriesPoint) string {
	b, err := json.Marshal(points)
	if err != nil {
		return "invalid"
	}
	return contentHash(b)
}
