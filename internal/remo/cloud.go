package remo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tenntenn/natureremo"

	"github.com/cybre/remo-light/internal/errors"
	"github.com/cybre/remo-light/internal/light"
)

type applianceLister interface {
	GetAll(ctx context.Context) ([]*natureremo.Appliance, error)
}

type signalSender interface {
	Send(ctx context.Context, s *natureremo.Signal) error
}

// Cloud sends pulses through the Nature Remo cloud API.
type Cloud struct {
	appliances  applianceLister
	signals     signalSender
	applianceID string
	cache       *SignalCache

	mu       sync.Mutex
	ids      SignalIDs
	resolved bool
}

// NewCloud returns an emitter for the appliance. cache may be nil.
func NewCloud(client *natureremo.Client, applianceID string, cache *SignalCache) *Cloud {
	return newCloud(client.ApplianceService, client.SignalService, applianceID, cache)
}

func newCloud(appliances applianceLister, signals signalSender, applianceID string, cache *SignalCache) *Cloud {
	return &Cloud{
		appliances:  appliances,
		signals:     signals,
		applianceID: applianceID,
		cache:       cache,
	}
}

// Resolve looks up the light's button signals. When the listing fails the
// last cached signals are used instead.
func (c *Cloud) Resolve(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.resolveLocked(ctx)
}

func (c *Cloud) resolveLocked(ctx context.Context) error {
	appliances, err := c.appliances.GetAll(ctx)
	if err != nil {
		return c.fallbackLocked(errors.Wrapf(err, "list appliances"))
	}

	ids, err := signalIDsFor(appliances, c.applianceID)
	if err != nil {
		return err
	}

	c.ids = ids
	c.resolved = true

	slog.Info("resolved light signals", slog.String("appliance", c.applianceID))

	if c.cache != nil {
		if err := c.cache.Put(c.applianceID, ids); err != nil {
			slog.Warn("failed to cache light signals", slog.Any("error", err))
		}
	}

	return nil
}

func (c *Cloud) fallbackLocked(cause error) error {
	if c.cache == nil {
		return cause
	}

	ids, ok, err := c.cache.Get(c.applianceID)
	if err != nil {
		slog.Warn("failed to read cached light signals", slog.Any("error", err))
		return cause
	}
	if !ok {
		return cause
	}

	slog.Warn("using cached light signals", slog.String("appliance", c.applianceID), slog.Any("error", cause))

	c.ids = ids
	c.resolved = true

	return nil
}

func (c *Cloud) signalID(ctx context.Context, cmd light.Command) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.resolved {
		if err := c.resolveLocked(ctx); err != nil {
			if errors.Is(err, light.ErrUnconfigured) {
				return "", err
			}

			return "", errors.Wrap(fmt.Errorf("%w: %w", light.ErrUnconfigured, err))
		}
	}

	return c.ids.For(cmd), nil
}

func (c *Cloud) Emit(ctx context.Context, cmd light.Command) error {
	id, err := c.signalID(ctx, cmd)
	if err != nil {
		return err
	}
	if id == "" {
		return errors.Wrap(fmt.Errorf("%w: no signal for %s", light.ErrUnconfigured, cmd))
	}

	slog.Debug("sending cloud signal", slog.String("command", cmd.String()), slog.String("signal", id))

	if err := c.signals.Send(ctx, &natureremo.Signal{ID: id}); err != nil {
		return errors.Wrapf(err, "send %s signal", cmd)
	}

	return nil
}
