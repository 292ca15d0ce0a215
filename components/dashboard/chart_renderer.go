package dashboard

import (
	"context"
	"fmt"
	"strings"
)

const (
	ChartRendererSVG     = "svg"
	ChartRendererECharts = "echarts"
)

// ChartRenderer turns the revenue series into HTML markup for the page.
type ChartRenderer interface {
	RenderRevenueChart(ctx context.Context, points []TimeseriesPoint) (string, error)
}

// SVGChartRenderer draws the inline SVG area chart.
type SVGChartRenderer struct {
	opts AreaChartOptions
}

// NewSVGChartRenderer builds the default chart renderer.
func NewSVGChartRenderer(opts ...AreaChartOptions) *SVGChartRenderer {
	r := &SVGChartRenderer{}
	if len(opts) > 0 {
		r.opts = opts[0]
	}
	return r
}

// RenderRevenueChart implements ChartRenderer.
func (r *SVGChartRenderer) RenderRevenueChart(_ context.Context, points []TimeseriesPoint) (string, error) {
	chart := BuildAreaChart(points, r.opts)
	return RenderAreaChartSVG(chart, r.opts.normalized().Stroke), nil
}

// NewChartRenderer resolves a renderer by name.
func NewChartRenderer(kind string, opts ...EChartsOption) (ChartRenderer, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", ChartRendererSVG:
		return NewSVGChartRenderer(), nil
	case ChartRendererECharts:
		return NewEChartsChartRenderer(opts...), nil
	default:
		return nil, fmt.Errorf("dashboard: unsupported chart renderer %q", kind)
	}
}
