package control

// Timing and range constants, all expressed in ticks or 8-bit counts.
const (
	// StepCount is the number of scheduler steps in one pass; each tick
	// dispatches exactly one.
	StepCount = 6

	// CycleTicks is the length of a major cycle in ticks, kept as
	// bookkeeping for diagnostics.
	CycleTicks = 2 * StepCount

	// DecimationPeriod is the number of command-acquisition invocations
	// between ADC samples.
	DecimationPeriod = 10

	// CommandFloor is the minimum emitted command value.
	CommandFloor = 50

	// AdcShift scales the 12-bit ADC reading to the 8-bit command range.
	AdcShift = 4

	// Debounce counter parameters: the counter starts mid-range and is
	// pinned at the threshold it crosses.
	DebounceInit = 128
	DebounceLow  = 5
	DebounceHigh = 20

	// IndicatorCycle is the indicator phase period in invocations.
	IndicatorCycle = 800

	// Modulation index window applied to regulator actuation.
	ModulationMin = 125
	ModulationMax = 250
)

// Indicator output channels.
const (
	LedYellow = "led_yellow"
	LedGreen  = "led_green"
	LedRed    = "led_red"
)
