package remo

import (
	"context"
	"log/slog"

	"github.com/cybre/remo-light/internal/light"
)

// Stub drops every pulse. It is used when no transport is configured.
type Stub struct{}

func (Stub) Emit(ctx context.Context, cmd light.Command) error {
	slog.Info("test mode, pulse not sent", slog.String("command", cmd.String()))

	return nil
}
