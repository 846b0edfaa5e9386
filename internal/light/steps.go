package light

const (
	DefaultMaxSteps = 5
	MaxPercent      = 100
)

type Direction int

const (
	Down Direction = iota
	Up
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}

	return "down"
}

func (d Direction) Command() Command {
	if d == Up {
		return StepUp
	}

	return StepDown
}

// PercentToSteps maps a brightness percentage onto one of the light's discrete
// levels, ceil(maxSteps/100 * (percent+1)) clamped to [1, maxSteps]. The light
// has no zero level, off is the power axis only.
func PercentToSteps(percent, maxSteps int) int {
	if maxSteps < 1 {
		maxSteps = DefaultMaxSteps
	}
	percent = ClampPercent(percent)

	steps := (maxSteps*(percent+1) + MaxPercent - 1) / MaxPercent

	return min(max(steps, 1), maxSteps)
}

// StepDelta returns how many step pulses move the light from one level to
// another and in which direction.
func StepDelta(from, to int) (int, Direction) {
	if to > from {
		return to - from, Up
	}

	return from - to, Down
}

func ClampPercent(percent int) int {
	return min(max(percent, 0), MaxPercent)
}
