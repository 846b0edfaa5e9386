// Package remo sends light commands through a Nature Remo IR blaster, either
// via the cloud API or the device's local HTTP endpoint.
package remo

import (
	"fmt"

	"github.com/tenntenn/natureremo"

	"github.com/cybre/remo-light/internal/errors"
	"github.com/cybre/remo-light/internal/light"
)

// Button images the Nature Remo app assigns to the light remote's buttons.
const (
	ImagePower = "ico_on"
	ImageUp    = "ico_arrow_top"
	ImageDown  = "ico_arrow_bottom"
)

// SignalIDs are the cloud signal IDs learned for each button.
type SignalIDs struct {
	Power string `json:"power"`
	Up    string `json:"up"`
	Down  string `json:"down"`
}

func (s SignalIDs) For(cmd light.Command) string {
	switch cmd {
	case light.PowerToggle:
		return s.Power
	case light.StepUp:
		return s.Up
	case light.StepDown:
		return s.Down
	default:
		return ""
	}
}

func (s SignalIDs) complete() bool {
	return s.Power != "" && s.Up != "" && s.Down != ""
}

// LocalSignals are the raw IR payloads for each button, as returned by the
// local API's GET /messages after pressing the button on the physical remote.
type LocalSignals struct {
	Power natureremo.IRSignal `yaml:"power"`
	Up    natureremo.IRSignal `yaml:"up"`
	Down  natureremo.IRSignal `yaml:"down"`
}

func (s *LocalSignals) For(cmd light.Command) *natureremo.IRSignal {
	var sig *natureremo.IRSignal
	switch cmd {
	case light.PowerToggle:
		sig = &s.Power
	case light.StepUp:
		sig = &s.Up
	case light.StepDown:
		sig = &s.Down
	}

	if sig == nil || len(sig.Data) == 0 {
		return nil
	}

	return sig
}

// Validate reports the first button without a payload.
func (s *LocalSignals) Validate() error {
	for _, cmd := range []light.Command{light.PowerToggle, light.StepUp, light.StepDown} {
		if s.For(cmd) == nil {
			return errors.Wrap(fmt.Errorf("%w: no local signal for %s", light.ErrUnconfigured, cmd))
		}
	}

	return nil
}

func signalIDsFor(appliances []*natureremo.Appliance, applianceID string) (SignalIDs, error) {
	var appliance *natureremo.Appliance
	for _, a := range appliances {
		if a != nil && a.ID == applianceID {
			appliance = a
			break
		}
	}
	if appliance == nil {
		return SignalIDs{}, errors.Wrap(fmt.Errorf("%w: appliance %s not found", light.ErrUnconfigured, applianceID))
	}

	var ids SignalIDs
	for _, s := range appliance.Signals {
		if s == nil {
			continue
		}

		switch s.Image {
		case ImagePower:
			ids.Power = s.ID
		case ImageUp:
			ids.Up = s.ID
		case ImageDown:
			ids.Down = s.ID
		}
	}

	if !ids.complete() {
		return SignalIDs{}, errors.Wrap(fmt.Errorf("%w: appliance %s is missing buttons %s, %s or %s", light.ErrUnconfigured, applianceID, ImagePower, ImageUp, ImageDown))
	}

	return ids, nil
}
