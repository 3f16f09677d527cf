package control

import (
	"motor-controller/internal/logger"
)

// DigitalOutput writes one of the indicator channels.
type DigitalOutput interface {
	WriteDigitalOutput(channel string, value bool) error
}

type indicatorPhase uint8

const (
	phaseIdle indicatorPhase = iota
	phaseSignal
	phaseClear
)

// Indicator drives the three status LEDs through a fixed-period cycle:
// the signal pattern is asserted one invocation past the wrap, cleared at
// half period, and the phase counter wraps once it passes the full period.
//
// The pattern shown is latched when the signal phase is entered and is not
// re-sampled until the next cycle:
//
//	red              a fault is latched (overrides everything else)
//	yellow           the command context has taken over
//	green            autonomous operation
type Indicator struct {
	out    DigitalOutput
	shared *SharedState
	logger *logger.Logger
	phase  uint
	cycle  uint
	sub    indicatorPhase
}

func NewIndicator(out DigitalOutput, shared *SharedState, l *logger.Logger) *Indicator {
	return &Indicator{
		out:    out,
		shared: shared,
		logger: l.WithTag("Indicator"),
		cycle:  IndicatorCycle,
	}
}

// Update advances the phase counter by one invocation.
func (i *Indicator) Update() {
	i.phase++

	if i.phase == 1 && i.sub == phaseIdle {
		i.signal()
		i.sub = phaseSignal
	}
	if i.phase == i.cycle/2 && i.sub == phaseSignal {
		i.clear()
		i.sub = phaseClear
	}
	if i.phase > i.cycle {
		i.phase = 0
		i.sub = phaseIdle
	}
}

func (i *Indicator) signal() {
	faulted := i.shared.FaultActive.Load()
	overridden := i.shared.OverrideActive.Load()

	i.set(LedRed, faulted)
	i.set(LedYellow, !faulted && overridden)
	i.set(LedGreen, !faulted && !overridden)
}

func (i *Indicator) clear() {
	i.set(LedYellow, false)
	i.set(LedGreen, false)
	i.set(LedRed, false)
}

func (i *Indicator) set(channel string, value bool) {
	if err := i.out.WriteDigitalOutput(channel, value); err != nil {
		i.logger.Warnf("Failed to set %s=%v: %v", channel, value, err)
	}
}

// Phase exposes the phase counter for diagnostics.
func (i *Indicator) Phase() uint {
	return i.phase
}
