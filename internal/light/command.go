package light

import (
	"context"
	"fmt"
)

var (
	ErrTransport    = fmt.Errorf("pulse delivery failed")
	ErrUnconfigured = fmt.Errorf("no signal mapped for the light")
	ErrPrecondition = fmt.Errorf("brightness change requested while the light is off")
)

// Command is one button press on the light's IR remote.
type Command uint8

const (
	PowerToggle Command = iota + 1
	StepUp
	StepDown
)

func (c Command) String() string {
	switch c {
	case PowerToggle:
		return "power_toggle"
	case StepUp:
		return "step_up"
	case StepDown:
		return "step_down"
	default:
		return fmt.Sprintf("command(%d)", uint8(c))
	}
}

// Emitter sends a single pulse. A nil error means the pulse was dispatched,
// it says nothing about what the light did with it.
type Emitter interface {
	Emit(ctx context.Context, cmd Command) error
}

type EmitterFunc func(ctx context.Context, cmd Command) error

func (f EmitterFunc) Emit(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// PulseError is returned when a pulse sequence stops at a failed emission.
type PulseError struct {
	Command Command
	// Sent is the number of pulses of the sequence that went out before the failure.
	Sent int
	Err  error
}

func (e *PulseError) Error() string {
	return fmt.Sprintf("emit %s (after %d sent): %v", e.Command, e.Sent, e.Err)
}

func (e *PulseError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}
