package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/tenntenn/natureremo"
	"golang.org/x/sync/errgroup"

	"github.com/cybre/remo-light/internal/clock"
	"github.com/cybre/remo-light/internal/config"
	"github.com/cybre/remo-light/internal/errors"
	"github.com/cybre/remo-light/internal/homekit"
	"github.com/cybre/remo-light/internal/light"
	"github.com/cybre/remo-light/internal/remo"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("failed to load config", slog.String("stack", errors.Stack(err)))
		os.Exit(1)
	}

	var loggerOpts *slog.HandlerOptions = nil
	if cfg.Debug {
		loggerOpts = &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, loggerOpts))
	slog.SetDefault(logger)

	if err := run(ctx, cfg); err != nil {
		slog.Error("remolight stopped", slog.String("stack", errors.Stack(err)))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	group, groupCtx := errgroup.WithContext(ctx)

	var emitter light.Emitter
	switch cfg.Transport() {
	case config.TransportLocal:
		slog.Info("sending pulses through local api", slog.String("addr", cfg.Remo.LocalAddr))
		emitter = remo.NewLocal(cfg.Remo.LocalAddr, cfg.Remo.Signals)
	case config.TransportCloud:
		cache, err := remo.OpenSignalCache(cfg.Cache.Path)
		if err != nil {
			return errors.Wrapf(err, "open signal cache")
		}
		defer func() {
			if err := cache.Close(); err != nil {
				slog.Warn("failed to close signal cache", slog.Any("error", err))
			}
		}()

		cloud := remo.NewCloud(natureremo.NewClient(cfg.Remo.AccessToken), cfg.Remo.LightID, cache)
		group.Go(func() error {
			// a failure here is retried on the first pulse
			if err := cloud.Resolve(groupCtx); err != nil {
				slog.Warn("failed to resolve light signals", slog.Any("error", err))
			}
			return nil
		})
		emitter = cloud
	default:
		slog.Warn("accessToken is not found, running in test mode")
		emitter = remo.Stub{}
	}

	engine := light.New(remo.Throttle(emitter, cfg.Remo.PulseInterval.Std()), clock.Real{}, light.Config{
		MaxSteps:          cfg.Light.MaxSteps,
		DefaultBrightness: cfg.Light.DefaultBrightness,
		SettleDelay:       cfg.Light.SettleDelay.Std(),
	})

	accessory, err := homekit.New(groupCtx, engine, homekit.Options{
		Name:      cfg.HomeKit.Name,
		Pin:       cfg.HomeKit.Pin,
		StorePath: cfg.HomeKit.Store,
	})
	if err != nil {
		return errors.Wrapf(err, "set up homekit")
	}

	group.Go(func() error {
		return engine.Run(groupCtx)
	})
	group.Go(func() error {
		return accessory.ListenAndServe(groupCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
