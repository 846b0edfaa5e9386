// Package homekit publishes the light as a HomeKit lightbulb.
package homekit

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/brutella/hap"
	hapaccessory "github.com/brutella/hap/accessory"

	"github.com/cybre/remo-light/internal/errors"
	"github.com/cybre/remo-light/internal/homekit/accessory"
)

// Light is the state the accessory exposes. Setters block until the pulses
// for the request have been sent.
type Light interface {
	SetPower(ctx context.Context, on bool) error
	SetBrightness(ctx context.Context, percent int) error
	Power() bool
	Brightness() int
	MaxSteps() int
	OnPowerChange(fn func(bool))
	OnBrightnessChange(fn func(int))
}

type Options struct {
	Name      string
	Pin       string
	StorePath string
}

type Accessory struct {
	*accessory.CeilingLight

	name   string
	server *hap.Server
}

func New(ctx context.Context, light Light, opts Options) (*Accessory, error) {
	a := newAccessory(ctx, light, opts.Name)

	fs := hap.NewFsStore(opts.StorePath)
	server, err := hap.NewServer(fs, a.A)
	if err != nil {
		return nil, errors.Wrapf(err, "create hap server")
	}
	server.Pin = opts.Pin

	return &Accessory{CeilingLight: a, name: opts.Name, server: server}, nil
}

func (a *Accessory) ListenAndServe(ctx context.Context) error {
	slog.Info("starting hap server", slog.String("name", a.name))

	if err := a.server.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "hap server")
	}

	return nil
}

func newAccessory(ctx context.Context, light Light, name string) *accessory.CeilingLight {
	a := accessory.NewCeilingLight(hapaccessory.Info{
		Name:         name,
		SerialNumber: "0000001",
		Manufacturer: "cybre",
		Model:        "MLRU1",
		Firmware:     "0.1.0",
	}, light.MaxSteps())

	a.Light.On.SetValue(light.Power())
	if err := a.Light.Brightness.SetValue(light.Brightness()); err != nil {
		slog.Warn("failed to set initial brightness", slog.Any("error", err))
	}

	// reads report the settled state, never a request still in flight
	a.Light.On.ValueRequestFunc = func(*http.Request) (interface{}, int) {
		return light.Power(), hap.JsonStatusSuccess
	}
	a.Light.Brightness.ValueRequestFunc = func(*http.Request) (interface{}, int) {
		return light.Brightness(), hap.JsonStatusSuccess
	}

	a.Light.On.OnSetRemoteValue(powerHandler(ctx, light))
	a.Light.Brightness.OnSetRemoteValue(brightnessHandler(ctx, light))

	light.OnPowerChange(func(on bool) {
		a.Light.On.SetValue(on)
	})
	light.OnBrightnessChange(func(percent int) {
		if err := a.Light.Brightness.SetValue(percent); err != nil {
			slog.Warn("failed to publish brightness", slog.Int("percent", percent), slog.Any("error", err))
		}
	})

	return a
}

func powerHandler(ctx context.Context, light Light) func(bool) error {
	return func(on bool) error {
		if err := light.SetPower(ctx, on); err != nil {
			slog.Error("failed to set power via homekit", slog.Bool("power", on), slog.String("stack", errors.Stack(err)))
			return err
		}

		return nil
	}
}

func brightnessHandler(ctx context.Context, light Light) func(int) error {
	return func(percent int) error {
		if err := light.SetBrightness(ctx, percent); err != nil {
			slog.Error("failed to set brightness via homekit", slog.Int("percent", percent), slog.String("stack", errors.Stack(err)))
			return err
		}

		return nil
	}
}
