package service

import (
	"github.com/brutella/hap/characteristic"
	hapservice "github.com/brutella/hap/service"
)

// CeilingLight is a lightbulb whose brightness slider snaps to the levels the
// physical light supports.
type CeilingLight struct {
	*hapservice.S

	On         *characteristic.On
	Brightness *characteristic.Brightness
}

func NewCeilingLight(maxSteps int) *CeilingLight {
	s := CeilingLight{}
	s.S = hapservice.New(hapservice.TypeLightbulb)

	s.On = characteristic.NewOn()
	s.AddC(s.On.C)

	s.Brightness = characteristic.NewBrightness()
	if maxSteps > 0 {
		s.Brightness.SetStepValue(100 / maxSteps)
	}
	s.AddC(s.Brightness.C)

	return &s
}
