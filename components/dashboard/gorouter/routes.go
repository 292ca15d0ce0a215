package gorouter

import (
	"bytes"
	"errors"
	"net/http"

	router "github.com/goliatone/go-router"

	dashboard "github.com/goliatone/go-store-dashboard/components/dashboard"
	"github.com/goliatone/go-store-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-store-dashboard/components/dashboard/httpapi"
)

// Config wires go-router with the dashboard controller and its actions.
type Config[T any] struct {
	Router     router.Router[T]
	Controller *dashboard.Controller
	// API defaults to the command executor built around Controller.
	API       httpapi.Executor
	Telemetry commands.Telemetry
	BasePath  string
	Routes    RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML    string
	Refresh string
	Seed    string
	State   string
	View    string
	Health  string
}

// Register mounts the dashboard page, its actions and the health page on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	api := cfg.API
	if api == nil {
		api = httpapi.NewCommandExecutor(cfg.Controller, cfg.Telemetry)
	}

	group := cfg.Router
	if cfg.BasePath != "" {
		group = cfg.Router.Group(cfg.BasePath)
	}

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		_ = api.Load(ctx.Context(), commands.LoadAnalyticsInput{Initial: true, Source: "gorouter"})
		return renderPage(ctx, cfg.Controller, api)
	}))

	group.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		_ = api.Load(ctx.Context(), commands.LoadAnalyticsInput{Source: "gorouter"})
		return renderPage(ctx, cfg.Controller, api)
	}))

	group.Post(routes.Seed, router.WrapHandler(func(ctx router.Context) error {
		_ = api.Seed(ctx.Context(), commands.SeedDemoInput{Source: "gorouter"})
		return renderPage(ctx, cfg.Controller, api)
	}))

	group.Get(routes.State, router.WrapHandler(func(ctx router.Context) error {
		return respondState(ctx, api)
	}))

	group.Get(routes.View, router.WrapHandler(func(ctx router.Context) error {
		view, err := api.View(ctx.Context())
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, view.Payload())
	}))

	group.Get(routes.Health, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderHealth(ctx.Context(), &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	return nil
}

func renderPage(ctx router.Context, controller *dashboard.Controller, api httpapi.Executor) error {
	if httpapi.WantsJSON(ctx.Header("Accept")) {
		return respondState(ctx, api)
	}
	var buf bytes.Buffer
	if err := controller.RenderTemplate(ctx.Context(), &buf); err != nil {
		return respondError(ctx, http.StatusInternalServerError, err)
	}
	ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
	return ctx.Send(buf.Bytes())
}

func respondState(ctx router.Context, api httpapi.Executor) error {
	state, err := api.State(ctx.Context())
	if err != nil {
		return respondError(ctx, http.StatusInternalServerError, err)
	}
	return ctx.JSON(http.StatusOK, state)
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	links := dashboard.DefaultPageLinks()
	if routes.HTML == "" {
		routes.HTML = links.Dashboard
	}
	if routes.Refresh == "" {
		routes.Refresh = links.Refresh
	}
	if routes.Seed == "" {
		routes.Seed = links.Seed
	}
	if routes.State == "" {
		routes.State = "/api/state"
	}
	if routes.View == "" {
		routes.View = "/api/view"
	}
	if routes.Health == "" {
		routes.Health = links.Health
	}
	return routes
}
