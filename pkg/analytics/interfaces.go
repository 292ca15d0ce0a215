package analytics

import (
	dashboard "github.com/goliatone/go-store-dashboard/components/dashboard"
)

// Client is the union of backend calls the dashboard relies on.
type Client interface {
	dashboard.OverviewClient
	dashboard.HealthChecker
}

const (
	// OverviewPath serves the aggregated analytics snapshot.
	OverviewPath = "/api/analytics/overview"
	// SeedPath populates demonstration data.
	SeedPath = "/api/seed"
	// DefaultHealthPath is probed by the health page.
	DefaultHealthPath = "/api/health"
)
