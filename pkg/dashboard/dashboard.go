// Package dashboard assembles a ready-to-serve store dashboard from configuration.
package dashboard

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	core "github.com/goliatone/go-store-dashboard/components/dashboard"
	"github.com/goliatone/go-store-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-store-dashboard/pkg/analytics"
	"github.com/goliatone/go-store-dashboard/pkg/config"
	"github.com/goliatone/go-store-dashboard/pkg/telemetry"
)

// Controller re-exports the core controller type.
type Controller = core.Controller

// State re-exports the controller state snapshot.
type State = core.State

// Options customize New beyond the configuration file.
type Options struct {
	Logger *zap.Logger
	// Registerer receives the event counters. Nil skips metrics.
	Registerer prometheus.Registerer
	// Client overrides the backend selected by configuration.
	Client analytics.Client
}

// App bundles the controller with the collaborators built for it.
type App struct {
	Config     config.Config
	Client     analytics.Client
	Controller *Controller
	API        *httpapi.CommandExecutor
	Telemetry  core.Telemetry
	Logger     *zap.Logger
}

// New wires the backend client, chart and template renderers, telemetry and
// controller described by cfg.
func New(cfg config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.L()
	}

	client := opts.Client
	if client == nil {
		var err error
		client, err = NewClient(cfg)
		if err != nil {
			return nil, err
		}
	}

	charts, err := NewChartRenderer(cfg.Chart)
	if err != nil {
		return nil, err
	}
	renderer, err := core.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("dashboard: template renderer: %w", err)
	}

	sinks := []core.Telemetry{telemetry.Logger(logger)}
	if opts.Registerer != nil {
		sinks = append(sinks, telemetry.NewMetrics(opts.Registerer))
	}
	events := telemetry.Fanout(sinks...)

	controller := core.NewController(core.ControllerOptions{
		Client:    client,
		Health:    client,
		Renderer:  renderer,
		Charts:    charts,
		Links:     Links(cfg.Server.BasePath),
		StateHook: telemetry.StateLogger(logger),
		Telemetry: events,
	})

	return &App{
		Config:     cfg,
		Client:     client,
		Controller: controller,
		API:        httpapi.NewCommandExecutor(controller, events),
		Telemetry:  events,
		Logger:     logger,
	}, nil
}

// NewClient returns the in-memory backend in demo mode, the HTTP client otherwise.
func NewClient(cfg config.Config) (analytics.Client, error) {
	if cfg.Demo {
		return analytics.NewMockClient(), nil
	}
	return analytics.NewHTTPClient(analytics.HTTPConfig{
		BaseURL:    cfg.Backend.URL,
		HealthPath: cfg.Backend.HealthPath,
		Timeout:    cfg.Backend.Timeout,
	})
}

// NewChartRenderer builds the configured revenue chart renderer.
func NewChartRenderer(cfg config.ChartConfig) (core.ChartRenderer, error) {
	var opts []core.EChartsOption
	if cfg.Theme != "" {
		opts = append(opts, core.WithChartTheme(cfg.Theme))
	}
	if cfg.AssetsHost != "" {
		opts = append(opts, core.WithChartAssetsHost(cfg.AssetsHost))
	}
	if cfg.CacheTTL > 0 {
		opts = append(opts, core.WithChartCache(core.NewChartCache(cfg.CacheTTL)))
	} else {
		opts = append(opts, core.WithChartCache(nil))
	}
	return core.NewChartRenderer(cfg.Renderer, opts...)
}

// Links prefixes the default page links with basePath.
func Links(basePath string) core.PageLinks {
	links := core.DefaultPageLinks()
	if basePath == "" || basePath == "/" {
		return links
	}
	links.Dashboard = basePath + "/"
	links.Refresh = basePath + links.Refresh
	links.Seed = basePath + links.Seed
	links.Health = basePath + links.Health
	return links
}
