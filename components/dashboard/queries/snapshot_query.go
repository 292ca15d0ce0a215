package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-store-dashboard/components/dashboard"
)

type snapshotter interface {
	Snapshot() dashboard.State
}

// SnapshotInput selects what the snapshot query returns.
type SnapshotInput struct{}

// SnapshotQuery returns the current dashboard state without side effects.
type SnapshotQuery struct {
	controller snapshotter
}

// NewSnapshotQuery builds the query.
func NewSnapshotQuery(controller snapshotter) *SnapshotQuery {
	return &SnapshotQuery{controller: controller}
}

var _ gocommand.Querier[SnapshotInput, dashboard.State] = (*SnapshotQuery)(nil)

// Query returns the current state.
func (q *SnapshotQuery) Query(_ context.Context, _ SnapshotInput) (dashboard.State, error) {
	return q.controller.Snapshot(), nil
}

type pageViewer interface {
	PageView(ctx context.Context) (dashboard.PageView, error)
}

// PageViewQuery returns the render model for the current state.
type PageViewQuery struct {
	controller pageViewer
}

// NewPageViewQuery builds the query.
func NewPageViewQuery(controller pageViewer) *PageViewQuery {
	return &PageViewQuery{controller: controller}
}

var _ gocommand.Querier[SnapshotInput, dashboard.PageView] = (*PageViewQuery)(nil)

// Query builds the page view.
func (q *PageViewQuery) Query(ctx context.Context, _ SnapshotInput) (dashboard.PageView, error) {
	return q.controller.PageView(ctx)
}
