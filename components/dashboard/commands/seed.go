package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

type seeder interface {
	SeedDemoData(ctx context.Context) error
}

// SeedDemoInput triggers the backend demo seed.
type SeedDemoInput struct {
	Source string `json:"source,omitempty"`
}

// SeedDemoCommand seeds demo data and reloads the overview on success.
type SeedDemoCommand struct {
	controller seeder
	telemetry  Telemetry
}

// NewSeedDemoCommand wires dependencies.
func NewSeedDemoCommand(controller seeder, telemetry Telemetry) *SeedDemoCommand {
	return &SeedDemoCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SeedDemoInput] = (*SeedDemoCommand)(nil)

// Execute runs the seed then reload pipeline.
func (c *SeedDemoCommand) Execute(ctx context.Context, msg SeedDemoInput) error {
	if c.controller == nil {
		return errors.New("seed command requires controller")
	}
	err := c.controller.SeedDemoData(ctx)
	c.telemetry.Record(ctx, "dashboard.command.seed", map[string]any{
		"source": msg.Source,
		"ok":     err == nil,
	})
	return err
}
