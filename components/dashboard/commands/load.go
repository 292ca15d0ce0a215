package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

type loader interface {
	LoadAnalytics(ctx context.Context) error
	Mount(ctx context.Context) error
}

// LoadAnalyticsInput requests an overview load.
type LoadAnalyticsInput struct {
	// Initial only loads when the dashboard has never been displayed.
	Initial bool   `json:"initial,omitempty"`
	Source  string `json:"source,omitempty"`
}

// LoadAnalyticsCommand fetches the overview into controller state.
type LoadAnalyticsCommand struct {
	controller loader
	telemetry  Telemetry
}

// NewLoadAnalyticsCommand creates the command.
func NewLoadAnalyticsCommand(controller loader, telemetry Telemetry) *LoadAnalyticsCommand {
	return &LoadAnalyticsCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[LoadAnalyticsInput] = (*LoadAnalyticsCommand)(nil)

// Execute loads analytics, either as the first mount or a manual refresh.
func (c *LoadAnalyticsCommand) Execute(ctx context.Context, msg LoadAnalyticsInput) error {
	if c.controller == nil {
		return errors.New("load command requires controller")
	}
	var err error
	if msg.Initial {
		err = c.controller.Mount(ctx)
	} else {
		err = c.controller.LoadAnalytics(ctx)
	}
	c.telemetry.Record(ctx, "dashboard.command.load", map[string]any{
		"initial": msg.Initial,
		"source":  msg.Source,
		"ok":      err == nil,
	})
	return err
}
