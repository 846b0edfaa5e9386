package accessory

import (
	hapaccessory "github.com/brutella/hap/accessory"

	"github.com/cybre/remo-light/internal/homekit/service"
)

type CeilingLight struct {
	*hapaccessory.A
	Light *service.CeilingLight
}

func NewCeilingLight(info hapaccessory.Info, maxSteps int) *CeilingLight {
	a := CeilingLight{}
	a.A = hapaccessory.New(info, hapaccessory.TypeLightbulb)

	a.Light = service.NewCeilingLight(maxSteps)
	a.AddS(a.Light.S)

	return &a
}
