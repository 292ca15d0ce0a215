package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-store-dashboard/components/dashboard"
	"github.com/goliatone/go-store-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-store-dashboard/components/dashboard/queries"
)

// Executor runs dashboard actions on behalf of a transport.
type Executor interface {
	Load(ctx context.Context, input commands.LoadAnalyticsInput) error
	Seed(ctx context.Context, input commands.SeedDemoInput) error
	State(ctx context.Context) (dashboard.State, error)
	View(ctx context.Context) (dashboard.PageView, error)
}

// CommandExecutor adapts go-command commanders and queriers to Executor.
type CommandExecutor struct {
	LoadCommand gocommand.Commander[commands.LoadAnalyticsInput]
	SeedCommand gocommand.Commander[commands.SeedDemoInput]
	StateQuery  gocommand.Querier[queries.SnapshotInput, dashboard.State]
	ViewQuery   gocommand.Querier[queries.SnapshotInput, dashboard.PageView]
}

var _ Executor = (*CommandExecutor)(nil)

// NewCommandExecutor wires the default commands and queries around a controller.
func NewCommandExecutor(controller *dashboard.Controller, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		LoadCommand: commands.NewLoadAnalyticsCommand(controller, telemetry),
		SeedCommand: commands.NewSeedDemoCommand(controller, telemetry),
		StateQuery:  queries.NewSnapshotQuery(controller),
		ViewQuery:   queries.NewPageViewQuery(controller),
	}
}

func (e *CommandExecutor) Load(ctx context.Context, input commands.LoadAnalyticsInput) error {
	return e.LoadCommand.Execute(ctx, input)
}

func (e *CommandExecutor) Seed(ctx context.Context, input commands.SeedDemoInput) error {
	return e.SeedCommand.Execute(ctx, input)
}

func (e *CommandExecutor) State(ctx context.Context) (dashboard.State, error) {
	return e.StateQuery.Query(ctx, queries.SnapshotInput{})
}

func (e *CommandExecutor) View(ctx context.Context) (dashboard.PageView, error) {
	if e.ViewQuery == nil {
		return dashboard.PageView{}, errors.New("httpapi: view query not configured")
	}
	return e.ViewQuery.Query(ctx, queries.SnapshotInput{})
}

// PageRenderer renders the HTML pages served by the handlers.
type PageRenderer interface {
	RenderTemplate(ctx context.Context, out io.Writer) error
	RenderHealth(ctx context.Context, out io.Writer) error
}

// Handlers exposes the dashboard over net/http.
//
// Action failures are not HTTP failures: the controller records them in state
// and the page renders the error banner, so actions still answer 200.
type Handlers struct {
	API   Executor
	Pages PageRenderer
}

// Mux registers the handlers on a ServeMux using the given links. The JSON
// endpoints live under the same base path as the dashboard page.
func (h *Handlers) Mux(links dashboard.PageLinks) *http.ServeMux {
	if links.Dashboard == "" {
		links = dashboard.DefaultPageLinks()
	}
	base := strings.TrimSuffix(links.Dashboard, "/")
	page := links.Dashboard
	if strings.HasSuffix(page, "/") {
		page += "{$}"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+page, h.HandlePage)
	mux.HandleFunc("POST "+links.Refresh, h.HandleRefresh)
	mux.HandleFunc("POST "+links.Seed, h.HandleSeed)
	mux.HandleFunc("GET "+links.Health, h.HandleHealth)
	mux.HandleFunc("GET "+base+"/api/state", h.HandleState)
	mux.HandleFunc("GET "+base+"/api/view", h.HandleView)
	return mux
}

// HandlePage loads analytics the first time it is displayed and renders the page.
func (h *Handlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	_ = h.API.Load(r.Context(), commands.LoadAnalyticsInput{Initial: true, Source: "http"})
	h.respond(w, r)
}

// HandleRefresh re-fetches the overview.
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	_ = h.API.Load(r.Context(), commands.LoadAnalyticsInput{Source: "http"})
	h.respond(w, r)
}

// HandleSeed seeds demo data and reloads the overview.
func (h *Handlers) HandleSeed(w http.ResponseWriter, r *http.Request) {
	_ = h.API.Seed(r.Context(), commands.SeedDemoInput{Source: "http"})
	h.respond(w, r)
}

// HandleState returns the current state as JSON.
func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r)
}

// HandleView returns the formatted page model as JSON.
func (h *Handlers) HandleView(w http.ResponseWriter, r *http.Request) {
	view, err := h.API.View(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, view.Payload())
}

// HandleHealth renders the backend connectivity page.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Pages.RenderHealth(r.Context(), &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (h *Handlers) respond(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		h.writeState(w, r)
		return
	}
	var buf bytes.Buffer
	if err := h.Pages.RenderTemplate(r.Context(), &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (h *Handlers) writeState(w http.ResponseWriter, r *http.Request) {
	state, err := h.API.State(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, state)
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func wantsJSON(r *http.Request) bool {
	return WantsJSON(r.Header.Get("Accept"))
}

// WantsJSON reports whether an Accept header prefers JSON over HTML.
func WantsJSON(accept string) bool {
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
