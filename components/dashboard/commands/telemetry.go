package commands

import (
	"context"

	dashboard "github.com/goliatone/go-store-dashboard/components/dashboard"
)

// Telemetry is the event sink shared with the dashboard controller.
type Telemetry = dashboard.Telemetry

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return dashboard.TelemetryFunc(func(context.Context, string, map[string]any) {})
	}
	return t
}
