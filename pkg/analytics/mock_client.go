package analytics

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	dashboard "github.com/goliatone/go-store-dashboard/components/dashboard"
)

const (
	demoDays          = 30
	demoCustomers     = 40
	timeseriesDays    = 14
	topProductsLimit  = 5
	mockHealthTarget  = "memory://analytics"
	defaultMockSeed   = 42
	maxOrdersPerDay   = 12
	minOrdersPerDay   = 3
	maxItemsPerOrder  = 3
	maxQuantityOnItem = 4
	secondsPerDay     = 86400
)

var demoCatalog = []mockProduct{
	{ID: 1, Title: "Classic Tee", Price: 19.99},
	{ID: 2, Title: "Hoodie", Price: 49.50},
	{ID: 3, Title: "Canvas Tote", Price: 14.00},
	{ID: 4, Title: "Coffee Mug", Price: 12.75},
	{ID: 5, Title: "Sticker Pack", Price: 5.25},
	{ID: 6, Title: "Cap", Price: 22.00},
	{ID: 7, Title: "Notebook", Price: 9.90},
	{ID: 8, Title: "Water Bottle", Price: 27.40},
}

var segmentOrder = []string{"new", "returning", "vip", "inactive"}

type mockProduct struct {
	ID    int
	Title string
	Price float64
}

type mockOrderItem struct {
	ProductID int
	Quantity  int
	Price     float64
}

type mockOrder struct {
	CustomerID int
	CreatedAt  time.Time
	Items      []mockOrderItem
}

func (o mockOrder) total() float64 {
	total := 0.0
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// MockOption customizes the mock client.
type MockOption func(*MockClient)

// WithMockClock pins the clock used to bucket orders.
func WithMockClock(clock func() time.Time) MockOption {
	return func(c *MockClient) {
		c.clock = clock
	}
}

// WithMockSeed fixes the random source used when generating demo orders.
func WithMockSeed(seed int64) MockOption {
	return func(c *MockClient) {
		c.seed = seed
	}
}

// WithMockOverview serves a fixed overview instead of aggregating demo orders.
func WithMockOverview(overview dashboard.AnalyticsOverview) MockOption {
	return func(c *MockClient) {
		fixture := overview.Clone()
		c.fixture = &fixture
	}
}

// MockClient is an in-memory store backend for tests and local demos.
type MockClient struct {
	mu        sync.RWMutex
	clock     func() time.Time
	seed      int64
	fixture   *dashboard.AnalyticsOverview
	customers []int
	orders    []mockOrder
	seeds     int
	fetches   int
	fetchErr  error
	seedErr   error
}

var _ Client = (*MockClient)(nil)

// NewMockClient builds an empty mock backend. Call Seed to generate data.
func NewMockClient(opts ...MockOption) *MockClient {
	c := &MockClient{
		clock: time.Now,
		seed:  defaultMockSeed,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FailFetch makes subsequent FetchOverview calls return err. Nil clears it.
func (c *MockClient) FailFetch(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchErr = err
}

// FailSeed makes subsequent Seed calls return err. Nil clears it.
func (c *MockClient) FailSeed(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seedErr = err
}

// Calls reports how many fetches and seeds were served.
func (c *MockClient) Calls() (fetches, seeds int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetches, c.seeds
}

// Seed replaces the demo data with customers and 30 days of orders.
func (c *MockClient) Seed(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return transportError(dashboard.OpSeed, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seeds++
	if c.seedErr != nil {
		return c.seedErr
	}

	rng := rand.New(rand.NewSource(c.seed + int64(c.seeds-1)))
	now := c.clock().UTC()
	today := startOfDay(now)

	c.customers = make([]int, demoCustomers)
	for i := range c.customers {
		c.customers[i] = i + 1
	}

	c.orders = c.orders[:0]
	for day := demoDays - 1; day >= 0; day-- {
		dayStart := today.AddDate(0, 0, -day)
		span := secondsPerDay
		if day == 0 {
			span = int(now.Sub(dayStart).Seconds()) + 1
		}
		count := minOrdersPerDay + rng.Intn(maxOrdersPerDay-minOrdersPerDay+1)
		for i := 0; i < count; i++ {
			order := mockOrder{
				CustomerID: c.customers[rng.Intn(len(c.customers))],
				CreatedAt:  dayStart.Add(time.Duration(rng.Intn(span)) * time.Second),
			}
			items := 1 + rng.Intn(maxItemsPerOrder)
			for j := 0; j < items; j++ {
				product := demoCatalog[rng.Intn(len(demoCatalog))]
				order.Items = append(order.Items, mockOrderItem{
					ProductID: product.ID,
					Quantity:  1 + rng.Intn(maxQuantityOnItem),
					Price:     product.Price,
				})
			}
			c.orders = append(c.orders, order)
		}
	}
	return nil
}

// FetchOverview aggregates the demo orders, or returns the configured fixture.
func (c *MockClient) FetchOverview(ctx context.Context) (dashboard.AnalyticsOverview, error) {
	if err := ctx.Err(); err != nil {
		return dashboard.AnalyticsOverview{}, transportError(dashboard.OpFetchOverview, err)
	}
	c.mu.Lock()
	c.fetches++
	fetchErr := c.fetchErr
	c.mu.Unlock()
	if fetchErr != nil {
		return dashboard.AnalyticsOverview{}, fetchErr
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fixture != nil {
		return c.fixture.Clone(), nil
	}
	return aggregateOverview(c.orders, c.customers, c.clock().UTC()), nil
}

// Ping implements dashboard.HealthChecker.
func (c *MockClient) Ping(ctx context.Context) (dashboard.HealthReport, error) {
	report := dashboard.HealthReport{Target: mockHealthTarget}
	if err := ctx.Err(); err != nil {
		return report, transportError(dashboard.OpPing, err)
	}
	report.StatusCode = 200
	report.Healthy = true
	return report, nil
}

func aggregateOverview(orders []mockOrder, customers []int, now time.Time) dashboard.AnalyticsOverview {
	today := startOfDay(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	windowStart := today.AddDate(0, 0, -(demoDays - 1))
	seriesStart := today.AddDate(0, 0, -(timeseriesDays - 1))

	overview := dashboard.AnalyticsOverview{
		TopProducts: []dashboard.TopProduct{},
		Segments:    []dashboard.Segment{},
		Timeseries:  make([]dashboard.TimeseriesPoint, timeseriesDays),
	}
	for i := range overview.Timeseries {
		overview.Timeseries[i].Date = seriesStart.AddDate(0, 0, i).Format(time.DateOnly)
	}

	type productTotals struct {
		quantity int
		revenue  float64
	}
	byProduct := map[int]*productTotals{}
	ordersPerCustomer := map[int]int{}

	for _, order := range orders {
		if order.CreatedAt.After(now) {
			continue
		}
		total := order.total()
		ordersPerCustomer[order.CustomerID]++
		if !order.CreatedAt.Before(today) {
			overview.TodayRevenue += total
			overview.TodayOrders++
		}
		if !order.CreatedAt.Before(monthStart) {
			overview.MTDRevenue += total
			overview.MTDOrders++
		}
		if !order.CreatedAt.Before(seriesStart) {
			idx := int(startOfDay(order.CreatedAt).Sub(seriesStart).Hours() / 24)
			if idx >= 0 && idx < len(overview.Timeseries) {
				overview.Timeseries[idx].Revenue += total
			}
		}
		if !order.CreatedAt.Before(windowStart) {
			for _, item := range order.Items {
				totals, ok := byProduct[item.ProductID]
				if !ok {
					totals = &productTotals{}
					byProduct[item.ProductID] = totals
				}
				totals.quantity += item.Quantity
				totals.revenue += item.Price * float64(item.Quantity)
			}
		}
	}

	if overview.MTDOrders > 0 {
		overview.AvgOrderValue = round2(overview.MTDRevenue / float64(overview.MTDOrders))
	}
	overview.TodayRevenue = round2(overview.TodayRevenue)
	overview.MTDRevenue = round2(overview.MTDRevenue)
	for i := range overview.Timeseries {
		overview.Timeseries[i].Revenue = round2(overview.Timeseries[i].Revenue)
	}

	for _, product := range demoCatalog {
		totals, ok := byProduct[product.ID]
		if !ok {
			continue
		}
		overview.TopProducts = append(overview.TopProducts, dashboard.TopProduct{
			Title:    product.Title,
			Quantity: totals.quantity,
			Revenue:  round2(totals.revenue),
		})
	}
	sort.SliceStable(overview.TopProducts, func(i, j int) bool {
		return overview.TopProducts[i].Revenue > overview.TopProducts[j].Revenue
	})
	if len(overview.TopProducts) > topProductsLimit {
		overview.TopProducts = overview.TopProducts[:topProductsLimit]
	}

	counts := map[string]int{}
	for _, id := range customers {
		counts[customerSegment(ordersPerCustomer[id])]++
	}
	for _, name := range segmentOrder {
		if counts[name] == 0 {
			continue
		}
		overview.Segments = append(overview.Segments, dashboard.Segment{Segment: name, Count: counts[name]})
	}
	return overview
}

func customerSegment(orders int) string {
	switch {
	case orders == 0:
		return "inactive"
	case orders == 1:
		return "new"
	case orders >= 8:
		return "vip"
	default:
		return "returning"
	}
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

