package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	dashboard "github.com/goliatone/go-store-dashboard/components/dashboard"
	"github.com/goliatone/go-store-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-store-dashboard/components/dashboard/queries"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

type stubQuerier struct {
	state dashboard.State
}

func (s stubQuerier) Query(context.Context, queries.SnapshotInput) (dashboard.State, error) {
	return s.state, nil
}

type stubViewQuerier struct {
	view dashboard.PageView
}

func (s stubViewQuerier) Query(context.Context, queries.SnapshotInput) (dashboard.PageView, error) {
	return s.view, nil
}

type stubPages struct {
	pageCalls   int
	healthCalls int
}

func (s *stubPages) RenderTemplate(_ context.Context, out io.Writer) error {
	s.pageCalls++
	_, err := io.WriteString(out, "<html>dashboard</html>")
	return err
}

func (s *stubPages) RenderHealth(_ context.Context, out io.Writer) error {
	s.healthCalls++
	_, err := io.WriteString(out, "<html>health</html>")
	return err
}

func newHandlers(state dashboard.State) (*Handlers, *stubCommander[commands.LoadAnalyticsInput], *stubCommander[commands.SeedDemoInput], *stubPages) {
	load := &stubCommander[commands.LoadAnalyticsInput]{}
	seed := &stubCommander[commands.SeedDemoInput]{}
	pages := &stubPages{}
	return &Handlers{
		API: &CommandExecutor{
			LoadCommand: load,
			SeedCommand: seed,
			StateQuery:  stubQuerier{state: state},
			ViewQuery:   stubViewQuerier{view: dashboard.PageView{Title: "Store SaaS Dashboard", HasAnalytics: state.HasAnalytics()}},
		},
		Pages: pages,
	}, load, seed, pages
}

func TestHandlePageMountsAndRenders(t *testing.T) {
	api, load, _, pages := newHandlers(dashboard.State{})
	rec := httptest.NewRecorder()
	api.HandlePage(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !load.last.Initial || load.calls != 1 {
		t.Fatalf("expected initial load, got %#v", load.last)
	}
	if pages.pageCalls != 1 {
		t.Fatalf("expected page render")
	}
}

func TestHandleRefreshRendersDespiteFailure(t *testing.T) {
	api, load, _, pages := newHandlers(dashboard.State{Error: "Failed to load analytics"})
	load.err = errors.New("backend down")
	rec := httptest.NewRecorder()
	api.HandleRefresh(rec, httptest.NewRequest(http.MethodPost, "/refresh", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if load.last.Initial {
		t.Fatalf("refresh must not be an initial load")
	}
	if pages.pageCalls != 1 {
		t.Fatalf("expected page render")
	}
}

func TestHandleSeedAnswersJSONWhenRequested(t *testing.T) {
	state := dashboard.State{Analytics: &dashboard.AnalyticsOverview{TodayOrders: 2}}
	api, _, seed, pages := newHandlers(state)
	req := httptest.NewRequest(http.MethodPost, "/seed", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	api.HandleSeed(rec, req)
	if seed.calls != 1 {
		t.Fatalf("expected seed to execute")
	}
	if pages.pageCalls != 0 {
		t.Fatalf("expected JSON response, page rendered instead")
	}
	var got dashboard.State
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if got.Analytics == nil || got.Analytics.TodayOrders != 2 {
		t.Fatalf("unexpected state %#v", got)
	}
}

func TestMuxRoutesHealth(t *testing.T) {
	api, _, _, pages := newHandlers(dashboard.State{})
	mux := api.Mux(dashboard.DefaultPageLinks())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if pages.healthCalls != 1 {
		t.Fatalf("expected health render")
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
}

func TestMuxScopesRoutesToBasePath(t *testing.T) {
	api, load, _, pages := newHandlers(dashboard.State{})
	mux := api.Mux(dashboard.PageLinks{
		Dashboard: "/store/",
		Refresh:   "/store/refresh",
		Seed:      "/store/seed",
		Health:    "/store/test",
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/store/does-not-exist", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", rec.Code)
	}
	if load.calls != 0 || pages.pageCalls != 0 {
		t.Fatalf("unknown path must not load or render the dashboard")
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/store/", nil))
	if rec.Code != http.StatusOK || pages.pageCalls != 1 {
		t.Fatalf("expected dashboard at base path, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/store/api/state", nil))
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON state under base path, got %q", ct)
	}
	if pages.pageCalls != 1 {
		t.Fatalf("state endpoint must not render HTML")
	}
}

func TestMuxServesView(t *testing.T) {
	api, load, _, _ := newHandlers(dashboard.State{Analytics: &dashboard.AnalyticsOverview{}})
	mux := api.Mux(dashboard.DefaultPageLinks())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/view", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if load.calls != 0 {
		t.Fatalf("view must not trigger a load")
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if got["title"] != "Store SaaS Dashboard" || got["has_analytics"] != true {
		t.Fatalf("unexpected view %#v", got)
	}
}

func TestWantsJSON(t *testing.T) {
	if !WantsJSON("application/json") {
		t.Fatalf("expected JSON preference")
	}
	if WantsJSON("text/html,application/json;q=0.9") {
		t.Fatalf("browsers should get HTML")
	}
	if WantsJSON("") {
		t.Fatalf("empty accept should get HTML")
	}
}
