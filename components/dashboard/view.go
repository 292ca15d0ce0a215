package dashboard

import (
	"context"
	"fmt"
	"math"
)

const (
	pageTitle         = "Store SaaS Dashboard"
	chartTitle        = "Revenue (last 14 days)"
	emptyProductsText = "No data yet"
	emptySegmentsText = "No segments yet"
)

var howToSteps = []string{
	"Click Seed Demo to populate products, customers and 30 days of orders",
	"Refresh the dashboard to see analytics update",
	"Use the Health page to verify backend and database",
}

// PageLinks are the action targets rendered into the page.
type PageLinks struct {
	Dashboard string
	Refresh   string
	Seed      string
	Health    string
}

// DefaultPageLinks returns the root-mounted routes.
func DefaultPageLinks() PageLinks {
	return PageLinks{
		Dashboard: "/",
		Refresh:   "/refresh",
		Seed:      "/seed",
		Health:    "/test",
	}
}

func (l PageLinks) withDefaults() PageLinks {
	def := DefaultPageLinks()
	if l.Dashboard == "" {
		l.Dashboard = def.Dashboard
	}
	if l.Refresh == "" {
		l.Refresh = def.Refresh
	}
	if l.Seed == "" {
		l.Seed = def.Seed
	}
	if l.Health == "" {
		l.Health = def.Health
	}
	return l
}

// ProductRow is a formatted top product entry.
type ProductRow struct {
	Title   string
	Sold    string
	Revenue string
}

// SegmentRow is a formatted customer segment entry.
type SegmentRow struct {
	Segment string
	Count   int
}

// PageView is everything the dashboard template needs for one snapshot.
type PageView struct {
	Title         string
	Loading       bool
	Error         string
	HasAnalytics  bool
	StatCards     []StatCard
	ChartTitle    string
	ChartHTML     string
	TopProducts   []ProductRow
	Segments      []SegmentRow
	EmptyProducts string
	EmptySegments string
	HowTo         []string
	Links         PageLinks
}

// BuildPageView derives the render model from a state snapshot.
func BuildPageView(ctx context.Context, state State, charts ChartRenderer, links ...PageLinks) (PageView, error) {
	view := PageView{
		Title:      pageTitle,
		Loading:    state.Loading,
		Error:      state.Error,
		ChartTitle: chartTitle,
		HowTo:      howToSteps,
	}
	if len(links) > 0 {
		view.Links = links[0].withDefaults()
	} else {
		view.Links = DefaultPageLinks()
	}
	if state.Analytics == nil {
		return view, nil
	}

	overview := state.Analytics
	view.HasAnalytics = true
	view.StatCards = BuildStatCards(*overview)

	if charts == nil {
		charts = NewSVGChartRenderer()
	}
	chartHTML, err := charts.RenderRevenueChart(ctx, overview.Timeseries)
	if err != nil {
		return PageView{}, err
	}
	view.ChartHTML = chartHTML

	view.TopProducts = make([]ProductRow, 0, len(overview.TopProducts))
	for _, p := range overview.TopProducts {
		view.TopProducts = append(view.TopProducts, ProductRow{
			Title:   p.Title,
			Sold:    fmt.Sprintf("%d sold", p.Quantity),
			Revenue: FormatMoney(p.Revenue),
		})
	}
	if len(view.TopProducts) == 0 {
		view.EmptyProducts = emptyProductsText
	}

	view.Segments = make([]SegmentRow, 0, len(overview.Segments))
	for _, s := range overview.Segments {
		view.Segments = append(view.Segments, SegmentRow{Segment: s.Segment, Count: s.Count})
	}
	if len(view.Segments) == 0 {
		view.EmptySegments = emptySegmentsText
	}
	return view, nil
}

// BuildStatCards lays out the four headline metrics.
func BuildStatCards(overview AnalyticsOverview) []StatCard {
	return []StatCard{
		NewStatCard("Revenue Today", FormatMoney(overview.TodayRevenue), formatOrders(overview.TodayOrders), AccentGreen),
		NewStatCard("MTD Revenue", FormatMoney(overview.MTDRevenue), formatOrders(overview.MTDOrders), AccentBlue),
		NewStatCard("Avg Order Value", FormatMoney(overview.AvgOrderValue), "Month-to-date", AccentPurple),
		NewStatCard("Top Products", fmt.Sprintf("%d", len(overview.TopProducts)), "Last 30 days", AccentOrange),
	}
}

// FormatMoney renders a dollar amount with two decimals. Ties round away
// from zero.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("$%.2f", math.Round(amount*100)/100)
}

func formatOrders(n int) string {
	return fmt.Sprintf("%d orders", n)
}

// Payload converts the view into template data. Nested values are plain maps
// keyed like the JSON state so templates never depend on Go field names.
func (v PageView) Payload() map[string]any {
	cards := make([]map[string]any, 0, len(v.StatCards))
	for _, c := range v.StatCards {
		cards = append(cards, map[string]any{
			"id":       c.ID,
			"title":    c.Title,
			"value":    c.Value,
			"sub":      c.Sub,
			"accent":   string(c.Accent),
			"gradient": c.Gradient,
		})
	}
	products := make([]map[string]any, 0, len(v.TopProducts))
	for _, p := range v.TopProducts {
		products = append(products, map[string]any{
			"title":   p.Title,
			"sold":    p.Sold,
			"revenue": p.Revenue,
		})
	}
	segments := make([]map[string]any, 0, len(v.Segments))
	for _, s := range v.Segments {
		segments = append(segments, map[string]any{
			"segment": s.Segment,
			"count":   s.Count,
		})
	}
	return map[string]any{
		"title":          v.Title,
		"loading":        v.Loading,
		"error":          v.Error,
		"has_analytics":  v.HasAnalytics,
		"stat_cards":     cards,
		"chart_title":    v.ChartTitle,
		"chart_html":     v.ChartHTML,
		"top_products":   products,
		"segments":       segments,
		"empty_products": v.EmptyProducts,
		"empty_segments": v.EmptySegments,
		"how_to":         v.HowTo,
		"links":          v.Links.payload(),
	}
}

func (l PageLinks) payload() map[string]any {
	return map[string]any{
		"dashboard": l.Dashboard,
		"refresh":   l.Refresh,
		"seed":      l.Seed,
		"health":    l.Health,
	}
}
