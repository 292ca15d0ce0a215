package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-store-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-store-dashboard/components/dashboard/gorouter"
	"github.com/goliatone/go-store-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-store-dashboard/pkg/analytics"
	"github.com/goliatone/go-store-dashboard/pkg/config"
	storedash "github.com/goliatone/go-store-dashboard/pkg/dashboard"
	"github.com/goliatone/go-store-dashboard/pkg/logging"
	"github.com/goliatone/go-store-dashboard/pkg/telemetry"
)

const shutdownTimeout = 5 * time.Second

type Globals struct {
	Config     string `short:"c" type:"path" help:"YAML configuration file (defaults to $STOREDASH_CONFIG)."`
	BackendURL string `name:"backend-url" help:"Store backend base URL (overrides backend.url)."`
	Demo       bool   `help:"Use the in-memory demo backend instead of backend.url."`
	LogLevel   string `name:"log-level" help:"Log level: debug, info, warn, error."`
}

type cli struct {
	Globals

	Serve       serveCmd       `cmd:"" default:"1" help:"Serve the dashboard."`
	DemoBackend demoBackendCmd `cmd:"" name:"demo-backend" help:"Serve the in-memory store backend over HTTP."`
	Overview    overviewCmd    `cmd:"" help:"Load the analytics overview once and print the state as JSON."`
	Seed        seedCmd        `cmd:"" help:"Seed demo data, reload the overview and print the state as JSON."`
	ShowConfig  configCmd      `cmd:"" name:"config" help:"Print the effective configuration as YAML."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var app cli
	kctx := kong.Parse(&app,
		kong.Name("storedash"),
		kong.Description("Store analytics dashboard."),
		kong.UsageOnError(),
		kong.Bind(&app.Globals),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run()
	kctx.FatalIfErrorf(err)
}

func (g *Globals) load() (config.Config, error) {
	overrides := map[string]any{}
	if g.BackendURL != "" {
		overrides["backend.url"] = g.BackendURL
	}
	if g.Demo {
		overrides["demo"] = true
	}
	if g.LogLevel != "" {
		overrides["log.level"] = g.LogLevel
	}
	return config.Load(config.Options{File: g.Config, Overrides: overrides})
}

func (g *Globals) setup() (config.Config, *zap.Logger, error) {
	cfg, err := g.load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return config.Config{}, nil, err
	}
	logging.Install(logger)
	return cfg, logger, nil
}

type serveCmd struct {
	Listen        string `help:"Dashboard listen address (overrides server.listen)."`
	MetricsListen string `name:"metrics-listen" help:"Metrics listen address (overrides server.metrics_listen)."`
	Transport     string `default:"fiber" enum:"fiber,http" help:"HTTP stack: fiber (go-router) or http (net/http)."`
}

func (cmd *serveCmd) Run(ctx context.Context, g *Globals) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	if cmd.Listen != "" {
		cfg.Server.Listen = cmd.Listen
	}
	if cmd.MetricsListen != "" {
		cfg.Server.MetricsListen = cmd.MetricsListen
	}

	reg := prometheus.NewRegistry()
	app, err := storedash.New(cfg, storedash.Options{Logger: logger, Registerer: reg})
	if err != nil {
		return err
	}

	if cfg.Server.MetricsListen != "" {
		metrics := telemetry.NewMetricsServer(cfg.Server.MetricsListen, reg)
		go func() {
			logger.Info("metrics server listening", zap.String("addr", metrics.Addr))
			if err := metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer shutdown(metrics, logger)
	}

	logger.Info("dashboard listening",
		zap.String("addr", cfg.Server.Listen),
		zap.String("transport", cmd.Transport),
		zap.Bool("demo", cfg.Demo),
		zap.String("backend", cfg.Backend.URL),
	)
	if cmd.Transport == "http" {
		return serveHTTP(ctx, cfg, app, logger)
	}
	return serveFiber(ctx, cfg, app, logger)
}

func serveFiber(ctx context.Context, cfg config.Config, app *storedash.App, logger *zap.Logger) error {
	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: app.Controller,
		API:        app.API,
		BasePath:   cfg.Server.BasePath,
	}); err != nil {
		return fmt.Errorf("storedash: register routes: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(cfg.Server.Listen)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down dashboard")
		return server.Shutdown(shutdownCtx)
	}
}

func serveHTTP(ctx context.Context, cfg config.Config, app *storedash.App, logger *zap.Logger) error {
	handlers := &httpapi.Handlers{API: app.API, Pages: app.Controller}
	srv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           handlers.Mux(storedash.Links(cfg.Server.BasePath)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return listen(ctx, srv, logger)
}

type demoBackendCmd struct {
	Listen  string `default:":8000" help:"Listen address for the demo backend."`
	Seed    bool   `help:"Seed demo data before serving."`
	RandSrc int64  `name:"rand-seed" default:"42" help:"Random seed for generated orders."`
}

func (cmd *demoBackendCmd) Run(ctx context.Context, g *Globals) error {
	_, logger, err := g.setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	client := analytics.NewMockClient(analytics.WithMockSeed(cmd.RandSrc))
	if cmd.Seed {
		if err := client.Seed(ctx); err != nil {
			return fmt.Errorf("storedash: seed demo backend: %w", err)
		}
	}
	srv := &http.Server{
		Addr:              cmd.Listen,
		Handler:           analytics.NewMockHandler(client),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("demo backend listening", zap.String("addr", cmd.Listen), zap.Bool("seeded", cmd.Seed))
	return listen(ctx, srv, logger)
}

type overviewCmd struct{}

func (cmd *overviewCmd) Run(ctx context.Context, g *Globals) error {
	app, err := g.app()
	if err != nil {
		return err
	}
	defer app.Logger.Sync() //nolint:errcheck
	loadErr := commands.NewLoadAnalyticsCommand(app.Controller, app.Telemetry).
		Execute(ctx, commands.LoadAnalyticsInput{Initial: true, Source: "cli"})
	return printState(os.Stdout, app, loadErr)
}

type seedCmd struct{}

func (cmd *seedCmd) Run(ctx context.Context, g *Globals) error {
	app, err := g.app()
	if err != nil {
		return err
	}
	defer app.Logger.Sync() //nolint:errcheck
	seedErr := commands.NewSeedDemoCommand(app.Controller, app.Telemetry).
		Execute(ctx, commands.SeedDemoInput{Source: "cli"})
	return printState(os.Stdout, app, seedErr)
}

type configCmd struct{}

func (cmd *configCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("storedash: encode config: %w", err)
	}
	return nil
}

func (g *Globals) app() (*storedash.App, error) {
	cfg, logger, err := g.setup()
	if err != nil {
		return nil, err
	}
	return storedash.New(cfg, storedash.Options{Logger: logger})
}

func printState(out io.Writer, app *storedash.App, actionErr error) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(app.Controller.Snapshot()); err != nil {
		return fmt.Errorf("storedash: encode state: %w", err)
	}
	return actionErr
}

func listen(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown(srv, logger)
		return nil
	}
}

func shutdown(srv *http.Server, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("server shutdown", zap.String("addr", srv.Addr), zap.Error(err))
	}
}
