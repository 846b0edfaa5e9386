// Package light keeps a best guess of the state of a ceiling light that can
// only be driven by one-shot IR pulses and never reports back.
package light

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cybre/remo-light/internal/clock"
	"github.com/cybre/remo-light/internal/errors"
	"github.com/cybre/remo-light/internal/queue"
)

type Config struct {
	// MaxSteps is the number of brightness levels the light has.
	MaxSteps int
	// DefaultBrightness is the percentage assumed at startup.
	DefaultBrightness int
	// SettleDelay is the quiet period before a request is published as observed.
	SettleDelay time.Duration
}

type State struct {
	Power      bool
	Brightness int
}

// Engine turns power and brightness requests into pulse sequences.
//
// Two copies of the state are kept. Pending is the latest accepted request
// and moves as soon as a request is accepted. Observed is what readers see
// and only moves when a successful request has settled.
type Engine struct {
	emitter Emitter
	queue   *queue.Queue
	cfg     Config

	mu       sync.Mutex
	pending  State
	observed State

	powerSettle      *settleTimer
	brightnessSettle *settleTimer

	powerObservers      []func(bool)
	brightnessObservers []func(int)
}

// New starts the light as on at the configured default brightness. A nil
// clock means the real one.
func New(emitter Emitter, c clock.Clock, cfg Config) *Engine {
	if c == nil {
		c = clock.Real{}
	}
	if cfg.MaxSteps < 1 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	cfg.DefaultBrightness = ClampPercent(cfg.DefaultBrightness)

	initial := State{Power: true, Brightness: cfg.DefaultBrightness}

	return &Engine{
		emitter:          emitter,
		queue:            queue.New(),
		cfg:              cfg,
		pending:          initial,
		observed:         initial,
		powerSettle:      newSettleTimer(c),
		brightnessSettle: newSettleTimer(c),
	}
}

// Run executes accepted requests until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	return e.queue.Run(ctx)
}

func (e *Engine) MaxSteps() int {
	return e.cfg.MaxSteps
}

func (e *Engine) Power() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.observed.Power
}

func (e *Engine) Brightness() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.observed.Brightness
}

func (e *Engine) Observed() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.observed
}

func (e *Engine) Pending() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.pending
}

// OnPowerChange registers fn to be called with every settled power value.
func (e *Engine) OnPowerChange(fn func(bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.powerObservers = append(e.powerObservers, fn)
}

// OnBrightnessChange registers fn to be called with every settled brightness value.
func (e *Engine) OnBrightnessChange(fn func(int)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.brightnessObservers = append(e.brightnessObservers, fn)
}

func (e *Engine) SetPower(ctx context.Context, on bool) error {
	return e.RequestPower(on).Wait(ctx)
}

func (e *Engine) SetBrightness(ctx context.Context, percent int) error {
	return e.RequestBrightness(percent).Wait(ctx)
}

// RequestPower accepts a power request and queues its pulses.
func (e *Engine) RequestPower(on bool) *queue.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending.Power == on {
		return queue.Resolved(nil)
	}

	slog.Info("power requested", slog.Bool("power", on))

	e.pending.Power = on
	e.powerSettle.Cancel()

	// a single toggle while on lands in the night light mode, a second one
	// turns the light off
	pulses := 1
	if !on {
		pulses = 2
	}

	return e.queue.Enqueue(func(ctx context.Context, task string) error {
		err := e.emit(ctx, task, PowerToggle, pulses)

		e.mu.Lock()
		defer e.mu.Unlock()

		stillWanted := e.pending.Power == on

		if err != nil {
			if stillWanted {
				e.pending.Power = !on
				slog.Warn("power request failed, rolled back", slog.String("task", task), slog.Bool("power", on), slog.Any("error", err))
			} else {
				slog.Warn("power request failed after being superseded", slog.String("task", task), slog.Bool("power", on), slog.Any("error", err))
			}

			return errors.Wrapf(err, "set power to %t", on)
		}

		if stillWanted {
			e.powerSettle.Arm(e.cfg.SettleDelay, func() {
				e.commitPower(on)
			})
		}

		return nil
	})
}

// RequestBrightness accepts a brightness request and queues its pulses.
// Requests made while the light is observed as off are dropped.
func (e *Engine) RequestBrightness(percent int) *queue.Result {
	percent = ClampPercent(percent)

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.observed.Power {
		slog.Warn("ignoring brightness request", slog.Int("percent", percent), slog.Any("error", ErrPrecondition))
		return queue.Resolved(nil)
	}

	previous := e.pending.Brightness
	prevSteps := PercentToSteps(previous, e.cfg.MaxSteps)
	newSteps := PercentToSteps(percent, e.cfg.MaxSteps)
	diff, direction := StepDelta(prevSteps, newSteps)

	slog.Info("brightness requested",
		slog.Int("percent", percent),
		slog.Int("prevSteps", prevSteps),
		slog.Int("newSteps", newSteps),
		slog.Int("diff", diff),
		slog.String("direction", direction.String()),
	)

	e.pending.Brightness = percent
	e.brightnessSettle.Cancel()

	return e.queue.Enqueue(func(ctx context.Context, task string) error {
		err := e.emit(ctx, task, direction.Command(), diff)

		e.mu.Lock()
		defer e.mu.Unlock()

		stillWanted := e.pending.Brightness == percent

		if err != nil {
			if stillWanted {
				e.pending.Brightness = previous
				slog.Warn("brightness request failed, rolled back", slog.String("task", task), slog.Int("percent", percent), slog.Int("restored", previous), slog.Any("error", err))
			} else {
				slog.Warn("brightness request failed after being superseded", slog.String("task", task), slog.Int("percent", percent), slog.Any("error", err))
			}

			return errors.Wrapf(err, "set brightness to %d%%", percent)
		}

		if stillWanted {
			e.brightnessSettle.Arm(e.cfg.SettleDelay, func() {
				e.commitBrightness(percent)
			})
		}

		return nil
	})
}

// emit sends count pulses of cmd, each one finished before the next starts.
func (e *Engine) emit(ctx context.Context, task string, cmd Command, count int) error {
	for i := 0; i < count; i++ {
		slog.Debug("sending pulse", slog.String("task", task), slog.String("command", cmd.String()), slog.Int("pulse", i+1), slog.Int("of", count))

		if err := e.emitter.Emit(ctx, cmd); err != nil {
			return errors.Wrap(&PulseError{Command: cmd, Sent: i, Err: err})
		}
	}

	return nil
}

func (e *Engine) commitPower(on bool) {
	e.mu.Lock()
	e.observed.Power = on
	observers := append([]func(bool){}, e.powerObservers...)
	e.mu.Unlock()

	slog.Debug("power settled", slog.Bool("power", on))

	for _, fn := range observers {
		fn(on)
	}
}

func (e *Engine) commitBrightness(percent int) {
	e.mu.Lock()
	e.observed.Brightness = percent
	observers := append([]func(int){}, e.brightnessObservers...)
	e.mu.Unlock()

	slog.Debug("brightness settled", slog.Int("percent", percent))

	for _, fn := range observers {
		fn(percent)
	}
}
