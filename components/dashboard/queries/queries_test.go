package queries

import (
	"context"
	"testing"

	dashboard "github.com/goliatone/go-store-dashboard/components/dashboard"
)

type stubController struct {
	state     dashboard.State
	viewCalls int
}

func (s *stubController) Snapshot() dashboard.State {
	return s.state
}

func (s *stubController) PageView(context.Context) (dashboard.PageView, error) {
	s.viewCalls++
	return dashboard.PageView{Title: "Store", Error: s.state.Error}, nil
}

func TestSnapshotQuery(t *testing.T) {
	controller := &stubController{state: dashboard.State{Error: "Failed to load analytics"}}
	query := NewSnapshotQuery(controller)
	state, err := query.Query(context.Background(), SnapshotInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if state.Error != "Failed to load analytics" {
		t.Fatalf("expected snapshot error to propagate, got %q", state.Error)
	}
}

func TestPageViewQuery(t *testing.T) {
	controller := &stubController{}
	query := NewPageViewQuery(controller)
	view, err := query.Query(context.Background(), SnapshotInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if controller.viewCalls != 1 {
		t.Fatalf("expected 1 call, got %d", controller.viewCalls)
	}
	if view.Title != "Store" {
		t.Fatalf("unexpected view %#v", view)
	}
}
