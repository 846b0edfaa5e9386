package remo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tenntenn/natureremo"

	"github.com/cybre/remo-light/internal/errors"
	"github.com/cybre/remo-light/internal/light"
)

type irEmitter interface {
	Emit(ctx context.Context, s *natureremo.IRSignal) error
}

// Local sends raw IR payloads to a Nature Remo on the local network.
type Local struct {
	client  irEmitter
	signals LocalSignals
}

func NewLocal(addr string, signals LocalSignals) *Local {
	return &Local{
		client:  natureremo.NewLocalClient(addr),
		signals: signals,
	}
}

func (l *Local) Emit(ctx context.Context, cmd light.Command) error {
	sig := l.signals.For(cmd)
	if sig == nil {
		return errors.Wrap(fmt.Errorf("%w: no local signal for %s", light.ErrUnconfigured, cmd))
	}

	slog.Debug("sending local signal", slog.String("command", cmd.String()), slog.Int("freq", sig.Freq), slog.Int("length", len(sig.Data)))

	if err := l.client.Emit(ctx, sig); err != nil {
		return errors.Wrapf(err, "emit %s locally", cmd)
	}

	return nil
}
