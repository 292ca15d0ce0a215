package dashboard

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	defaultChartWidth   = 600
	defaultChartHeight  = 180
	defaultChartPadding = 24
	defaultChartStroke  = "#6366f1"
)

// AreaChartOptions sets the drawing geometry. Zero values use the defaults.
type AreaChartOptions struct {
	Width   float64
	Height  float64
	Padding float64
	Stroke  string
}

func (o AreaChartOptions) normalized() AreaChartOptions {
	if o.Width <= 0 {
		o.Width = defaultChartWidth
	}
	if o.Height <= 0 {
		o.Height = defaultChartHeight
	}
	if o.Padding <= 0 {
		o.Padding = defaultChartPadding
	}
	if o.Stroke == "" {
		o.Stroke = defaultChartStroke
	}
	return o
}

// ChartCoordinate is a mapped point in SVG user space.
type ChartCoordinate struct {
	X float64
	Y float64
}

// AreaChart holds the computed paths for a revenue series.
type AreaChart struct {
	Width   float64
	Height  float64
	Padding float64
	Max     float64
	Points  []ChartCoordinate
	Line    string
	Area    string
}

// Empty reports whether there is nothing to draw.
func (c AreaChart) Empty() bool {
	return len(c.Points) == 0
}

// ViewBox returns the SVG viewBox attribute value.
func (c AreaChart) ViewBox() string {
	return "0 0 " + formatCoord(c.Width) + " " + formatCoord(c.Height)
}

// BuildAreaChart maps a revenue series onto line and fill paths. The maximum
// is floored at 1 so an all-zero or empty series never divides by zero.
func BuildAreaChart(points []TimeseriesPoint, opts AreaChartOptions) AreaChart {
	opts = opts.normalized()
	chart := AreaChart{
		Width:   opts.Width,
		Height:  opts.Height,
		Padding: opts.Padding,
		Max:     1,
	}
	for _, p := range points {
		if p.Revenue > chart.Max {
			chart.Max = p.Revenue
		}
	}
	if len(points) == 0 {
		return chart
	}

	plotWidth := opts.Width - opts.Padding*2
	plotHeight := opts.Height - opts.Padding*2
	steps := float64(len(points) - 1)
	if steps < 1 {
		steps = 1
	}
	stepX := plotWidth / steps
	baseline := opts.Height - opts.Padding

	chart.Points = make([]ChartCoordinate, len(points))
	var line strings.Builder
	for i, p := range points {
		coord := ChartCoordinate{
			X: opts.Padding + float64(i)*stepX,
			Y: baseline - (p.Revenue/chart.Max)*plotHeight,
		}
		chart.Points[i] = coord
		if i == 0 {
			line.WriteString("M ")
		} else {
			line.WriteString(" L ")
		}
		line.WriteString(formatCoord(coord.X))
		line.WriteByte(',')
		line.WriteString(formatCoord(coord.Y))
	}
	chart.Line = line.String()

	lastX := chart.Points[len(chart.Points)-1].X
	chart.Area = fmt.Sprintf("%s L %s,%s L %s,%s Z",
		chart.Line,
		formatCoord(lastX), formatCoord(baseline),
		formatCoord(opts.Padding), formatCoord(baseline),
	)
	return chart
}

// RenderAreaChartSVG renders the chart as a standalone SVG element.
func RenderAreaChartSVG(chart AreaChart, stroke string) string {
	if stroke == "" {
		stroke = defaultChartStroke
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<svg viewBox="%s" class="w-full h-48" role="img" aria-label="Revenue">`, chart.ViewBox())
	b.WriteString(`<defs><linearGradient id="grad" x1="0" y1="0" x2="0" y2="1">`)
	fmt.Fprintf(&b, `<stop offset="0%%" stop-color="%s" stop-opacity="0.35"/>`, stroke)
	fmt.Fprintf(&b, `<stop offset="100%%" stop-color="%s" stop-opacity="0.05"/>`, stroke)
	b.WriteString(`</linearGradient></defs>`)
	fmt.Fprintf(&b, `<path d="%s" fill="url(#grad)" stroke="none"/>`, chart.Area)
	fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="%s" stroke-width="2"/>`, chart.Line, stroke)
	b.WriteString(`</svg>`)
	return b.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
