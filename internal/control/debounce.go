package control

import "motor-controller/internal/types"

// DebounceFilter turns the noisy direction-switch input into a stable
// direction with a saturating hysteresis counter. The counter moves one step
// per sample (down while the switch is closed, up while it is open) and the
// output flips only when the counter crosses a threshold, at which point the
// counter is pinned at that threshold. Intermediate counter values never
// change the output.
type DebounceFilter struct {
	counter   uint8
	low, high uint8
	direction types.Direction
}

func NewDebounceFilter() *DebounceFilter {
	return &DebounceFilter{
		counter: DebounceInit,
		low:     DebounceLow,
		high:    DebounceHigh,
	}
}

// Update feeds one raw sample; rawOpen is the switch reading (true = open).
// It returns the debounced direction: a closed switch drives the counter
// toward Forward, an open switch toward Reverse.
func (f *DebounceFilter) Update(rawOpen bool) types.Direction {
	if rawOpen {
		if f.counter < 0xFF {
			f.counter++
		}
	} else {
		if f.counter > 0 {
			f.counter--
		}
	}

	if f.counter < f.low {
		f.direction = types.DirectionForward
		f.counter = f.low
	}
	if f.counter > f.high {
		f.direction = types.DirectionReverse
		f.counter = f.high
	}
	return f.direction
}

// Direction returns the current debounced direction without feeding a sample.
func (f *DebounceFilter) Direction() types.Direction {
	return f.direction
}

// Counter exposes the hysteresis counter for diagnostics.
func (f *DebounceFilter) Counter() uint8 {
	return f.counter
}
