package dashboard

import (
	"context"
	"slices"
	"time"
)

// OverviewClient talks to the analytics backend that owns the store data.
// Implementations carry their own base URL; the controller never resolves it.
type OverviewClient interface {
	FetchOverview(ctx context.Context) (AnalyticsOverview, error)
	Seed(ctx context.Context) error
}

// HealthChecker reports whether the analytics backend answers.
type HealthChecker interface {
	Ping(ctx context.Context) (HealthReport, error)
}

// StateHook observes controller state transitions.
type StateHook interface {
	StateChanged(ctx context.Context, state State)
}

// AnalyticsOverview is the aggregated store snapshot returned by the backend.
type AnalyticsOverview struct {
	TodayRevenue  float64           `json:"today_revenue"`
	TodayOrders   int               `json:"today_orders"`
	MTDRevenue    float64           `json:"mtd_revenue"`
	MTDOrders     int               `json:"mtd_orders"`
	AvgOrderValue float64           `json:"avg_order_value"`
	TopProducts   []TopProduct      `json:"top_products"`
	Segments      []Segment         `json:"segments"`
	Timeseries    []TimeseriesPoint `json:"timeseries"`
}

// TopProduct is one row of the best sellers list.
type TopProduct struct {
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// Segment counts customers within a named segment.
type Segment struct {
	Segment string `json:"segment"`
	Count   int    `json:"count"`
}

// TimeseriesPoint is a daily revenue bucket. Points arrive in chronological order.
type TimeseriesPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// Clone returns a deep copy so callers can never mutate a stored snapshot.
func (o AnalyticsOverview) Clone() AnalyticsOverview {
	out := o
	out.TopProducts = slices.Clone(o.TopProducts)
	out.Segments = slices.Clone(o.Segments)
	out.Timeseries = slices.Clone(o.Timeseries)
	return out
}

// State is an immutable view of the controller at one point in time.
type State struct {
	Loading   bool               `json:"loading"`
	Analytics *AnalyticsOverview `json:"analytics,omitempty"`
	Error     string             `json:"error,omitempty"`
	Cycle     string             `json:"cycle,omitempty"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// HasAnalytics reports whether an overview has been loaded.
func (s State) HasAnalytics() bool {
	return s.Analytics != nil
}

func (s State) clone() State {
	out := s
	if s.Analytics != nil {
		analytics := s.Analytics.Clone()
		out.Analytics = &analytics
	}
	return out
}

// HealthReport describes the outcome of a backend health probe.
type HealthReport struct {
	Target     string        `json:"target"`
	StatusCode int           `json:"status_code"`
	Healthy    bool          `json:"healthy"`
	Latency    time.Duration `json:"latency"`
}
