package light

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentToSteps(t *testing.T) {
	tests := []struct {
		percent  int
		expected int
	}{
		{0, 1},
		{1, 1},
		{19, 1},
		{20, 2},
		{30, 2},
		{39, 2},
		{40, 3},
		{59, 3},
		{70, 4},
		{79, 4},
		{80, 5},
		{99, 5},
		{100, 5},
		// out of range input is clamped first
		{-10, 1},
		{250, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, PercentToSteps(tt.percent, 5), "percent %d", tt.percent)
	}
}

func TestPercentToStepsBoundedAndMonotonic(t *testing.T) {
	for maxSteps := 1; maxSteps <= 12; maxSteps++ {
		previous := 0
		for percent := 0; percent <= 100; percent++ {
			steps := PercentToSteps(percent, maxSteps)

			assert.GreaterOrEqual(t, steps, 1, "max %d percent %d", maxSteps, percent)
			assert.LessOrEqual(t, steps, maxSteps, "max %d percent %d", maxSteps, percent)
			assert.GreaterOrEqual(t, steps, previous, "max %d percent %d", maxSteps, percent)

			previous = steps
		}
		assert.Equal(t, maxSteps, PercentToSteps(100, maxSteps))
	}
}

func TestPercentToStepsDefaultsMaxSteps(t *testing.T) {
	assert.Equal(t, DefaultMaxSteps, PercentToSteps(100, 0))
}

func TestStepDelta(t *testing.T) {
	tests := []struct {
		name      string
		from, to  int
		count     int
		direction Direction
	}{
		{"up", 2, 4, 2, Up},
		{"down", 5, 1, 4, Down},
		{"same", 3, 3, 0, Down},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, direction := StepDelta(tt.from, tt.to)

			assert.Equal(t, tt.count, count)
			assert.Equal(t, tt.direction, direction)
		})
	}
}

func TestDirectionCommand(t *testing.T) {
	assert.Equal(t, StepUp, Up.Command())
	assert.Equal(t, StepDown, Down.Command())
	assert.Equal(t, "up", Up.String())
	assert.Equal(t, "down", Down.String())
}
