package dashboard

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTemplate       = "dashboard.html"
	defaultHealthTemplate = "health.html"
)

// ControllerOptions wires the controller collaborators.
type ControllerOptions struct {
	Client         OverviewClient
	Health         HealthChecker
	Renderer       Renderer
	Charts         ChartRenderer
	Template       string
	HealthTemplate string
	Links          PageLinks
	StateHook      StateHook
	Telemetry      Telemetry
	Clock          func() time.Time
	CycleID        func() string
}

// Controller owns the dashboard state and the two backend operations.
// State is swapped as a whole value on every transition.
type Controller struct {
	client         OverviewClient
	health         HealthChecker
	renderer       Renderer
	charts         ChartRenderer
	template       string
	healthTemplate string
	links          PageLinks
	hook           StateHook
	telemetry      Telemetry
	clock          func() time.Time
	cycleID        func() string

	mu    sync.RWMutex
	state State
	mount sync.Once
}

// NewController builds a controller with safe defaults. The initial state is
// loading with no analytics, mirroring a dashboard that has not fetched yet.
func NewController(opts ControllerOptions) *Controller {
	c := &Controller{
		client:         opts.Client,
		health:         opts.Health,
		renderer:       opts.Renderer,
		charts:         opts.Charts,
		template:       opts.Template,
		healthTemplate: opts.HealthTemplate,
		links:          opts.Links.withDefaults(),
		hook:           opts.StateHook,
		telemetry:      normalizeTelemetry(opts.Telemetry),
		clock:          opts.Clock,
		cycleID:        opts.CycleID,
	}
	if c.charts == nil {
		c.charts = NewSVGChartRenderer()
	}
	if c.template == "" {
		c.template = defaultTemplate
	}
	if c.healthTemplate == "" {
		c.healthTemplate = defaultHealthTemplate
	}
	if c.hook == nil {
		c.hook = noopStateHook{}
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	if c.cycleID == nil {
		c.cycleID = uuid.NewString
	}
	c.state = State{Loading: true, UpdatedAt: c.clock()}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Mount performs the initial load the first time the dashboard is displayed.
// Later calls are no-ops; use LoadAnalytics for manual refreshes.
func (c *Controller) Mount(ctx context.Context) error {
	var err error
	c.mount.Do(func() {
		err = c.LoadAnalytics(ctx)
	})
	return err
}

// LoadAnalytics fetches the overview and swaps it into state. A failed fetch
// keeps the previously displayed analytics.
func (c *Controller) LoadAnalytics(ctx context.Context) error {
	cycle := c.cycleID()
	c.update(ctx, func(s State) State {
		s.Loading = true
		s.Error = ""
		s.Cycle = cycle
		return s
	})

	if c.client == nil {
		c.fail(ctx, errMissingClient.Error())
		return errMissingClient
	}

	overview, err := c.client.FetchOverview(ctx)
	if err != nil {
		c.fail(ctx, displayMessage(OpFetchOverview, err))
		c.recordTelemetry(ctx, "dashboard.analytics.load_error", map[string]any{
			"cycle": cycle,
			"error": err.Error(),
		})
		return err
	}

	snapshot := overview.Clone()
	c.update(ctx, func(s State) State {
		s.Analytics = &snapshot
		s.Error = ""
		s.Loading = false
		return s
	})
	c.recordTelemetry(ctx, "dashboard.analytics.load", map[string]any{
		"cycle":        cycle,
		"top_products": len(snapshot.TopProducts),
		"segments":     len(snapshot.Segments),
		"points":       len(snapshot.Timeseries),
	})
	return nil
}

// SeedDemoData asks the backend to populate demo data and reloads the overview
// on success. A failed seed leaves the displayed analytics untouched and does
// not re-fetch.
func (c *Controller) SeedDemoData(ctx context.Context) error {
	c.update(ctx, func(s State) State {
		s.Loading = true
		return s
	})

	if c.client == nil {
		c.fail(ctx, errMissingClient.Error())
		return errMissingClient
	}

	if err := c.client.Seed(ctx); err != nil {
		c.fail(ctx, displayMessage(OpSeed, err))
		c.recordTelemetry(ctx, "dashboard.seed_error", map[string]any{"error": err.Error()})
		return err
	}
	c.recordTelemetry(ctx, "dashboard.seed", nil)
	return c.LoadAnalytics(ctx)
}

// CheckHealth probes the backend for the health page.
func (c *Controller) CheckHealth(ctx context.Context) (HealthReport, error) {
	if c.health == nil {
		return HealthReport{}, errors.New("dashboard: health checker not configured")
	}
	report, err := c.health.Ping(ctx)
	c.recordTelemetry(ctx, "dashboard.health", map[string]any{
		"healthy":     report.Healthy,
		"status_code": report.StatusCode,
	})
	return report, err
}

// PageView builds the render model for the current snapshot.
func (c *Controller) PageView(ctx context.Context) (PageView, error) {
	return BuildPageView(ctx, c.Snapshot(), c.charts, c.links)
}

// RenderTemplate renders the dashboard page for the current snapshot.
func (c *Controller) RenderTemplate(ctx context.Context, out io.Writer) error {
	if c.renderer == nil {
		return errors.New("dashboard: renderer not configured")
	}
	view, err := c.PageView(ctx)
	if err != nil {
		return err
	}
	_, err = c.renderer.Render(c.template, view.Payload(), out)
	return err
}

// RenderHealth renders the health page after probing the backend.
func (c *Controller) RenderHealth(ctx context.Context, out io.Writer) error {
	if c.renderer == nil {
		return errors.New("dashboard: renderer not configured")
	}
	report, err := c.CheckHealth(ctx)
	payload := map[string]any{
		"title": pageTitle,
		"links": c.links.payload(),
		"report": map[string]any{
			"target":      report.Target,
			"status_code": report.StatusCode,
		},
		"healthy": err == nil && report.Healthy,
		"latency": report.Latency.String(),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	_, err = c.renderer.Render(c.healthTemplate, payload, out)
	return err
}

func (c *Controller) fail(ctx context.Context, message string) {
	c.update(ctx, func(s State) State {
		s.Error = message
		s.Loading = false
		return s
	})
}

func (c *Controller) update(ctx context.Context, fn func(State) State) {
	c.mu.Lock()
	next := fn(c.state)
	next.UpdatedAt = c.clock()
	c.state = next
	published := next.clone()
	c.mu.Unlock()
	c.hook.StateChanged(ctx, published)
}

func (c *Controller) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	c.telemetry.Record(ctx, event, payload)
}

type noopStateHook struct{}

func (noopStateHook) StateChanged(context.Context, State) {}
