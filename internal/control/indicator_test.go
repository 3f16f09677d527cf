package control

import (
	"testing"

	"motor-controller/internal/logger"
)

type ledWrite struct {
	channel string
	value   bool
}

type mockDigitalOutput struct {
	states map[string]bool
	writes []ledWrite
}

func newMockDigitalOutput() *mockDigitalOutput {
	return &mockDigitalOutput{states: make(map[string]bool)}
}

func (m *mockDigitalOutput) WriteDigitalOutput(channel string, value bool) error {
	m.states[channel] = value
	m.writes = append(m.writes, ledWrite{channel, value})
	return nil
}

func newTestIndicator() (*Indicator, *mockDigitalOutput, *SharedState) {
	out := newMockDigitalOutput()
	shared := NewSharedState()
	l := logger.NewLogger(nil, logger.LogLevelError)
	return NewIndicator(out, shared, l), out, shared
}

func TestIndicatorSignalsOnFirstInvocation(t *testing.T) {
	ind, out, _ := newTestIndicator()

	ind.Update()

	if !out.states[LedGreen] {
		t.Error("Expected green on in normal operation")
	}
	if out.states[LedYellow] || out.states[LedRed] {
		t.Errorf("Expected yellow and red off, got %v", out.states)
	}
}

func TestIndicatorClearsAtHalfCycle(t *testing.T) {
	ind, out, _ := newTestIndicator()

	ind.Update()
	writesAfterSignal := len(out.writes)

	// Nothing is written between the signal phase and the half-cycle
	// clear.
	for ind.Phase() < IndicatorCycle/2-1 {
		ind.Update()
	}
	if len(out.writes) != writesAfterSignal {
		t.Fatalf("Unexpected writes before half cycle: %v", out.writes[writesAfterSignal:])
	}

	ind.Update()
	if ind.Phase() != IndicatorCycle/2 {
		t.Fatalf("Expected phase %d, got %d", IndicatorCycle/2, ind.Phase())
	}
	for _, ch := range []string{LedYellow, LedGreen, LedRed} {
		if out.states[ch] {
			t.Errorf("Expected %s off after clear", ch)
		}
	}
}

func TestIndicatorCyclePeriod(t *testing.T) {
	ind, out, _ := newTestIndicator()

	signals := 0
	var signalAt []int
	for i := 1; i <= 2*(IndicatorCycle+1); i++ {
		before := len(out.writes)
		ind.Update()
		for _, w := range out.writes[before:] {
			if w.channel == LedGreen && w.value {
				signals++
				signalAt = append(signalAt, i)
			}
		}
	}

	// The phase counter wraps one invocation past the period, so signals
	// land exactly IndicatorCycle+1 invocations apart.
	if signals != 2 {
		t.Fatalf("Expected 2 signal phases, got %d at %v", signals, signalAt)
	}
	if signalAt[1]-signalAt[0] != IndicatorCycle+1 {
		t.Errorf("Expected signal period %d, got %d", IndicatorCycle+1, signalAt[1]-signalAt[0])
	}
}

func TestIndicatorFaultPattern(t *testing.T) {
	ind, out, shared := newTestIndicator()
	shared.FaultActive.Store(true)

	ind.Update()

	if !out.states[LedRed] {
		t.Error("Expected red on while faulted")
	}
	if out.states[LedGreen] || out.states[LedYellow] {
		t.Errorf("Expected green and yellow off while faulted, got %v", out.states)
	}
}

func TestIndicatorOverridePattern(t *testing.T) {
	ind, out, shared := newTestIndicator()
	shared.OverrideActive.Store(true)

	ind.Update()

	if !out.states[LedYellow] {
		t.Error("Expected yellow on while overridden")
	}
	if out.states[LedGreen] || out.states[LedRed] {
		t.Errorf("Expected green and red off while overridden, got %v", out.states)
	}
}

func TestIndicatorFaultBeatsOverride(t *testing.T) {
	ind, out, shared := newTestIndicator()
	shared.FaultActive.Store(true)
	shared.OverrideActive.Store(true)

	ind.Update()

	if !out.states[LedRed] || out.states[LedYellow] {
		t.Errorf("Expected red only, got %v", out.states)
	}
}

func TestIndicatorLatchesPatternAtSignalPhase(t *testing.T) {
	ind, out, shared := newTestIndicator()

	ind.Update()
	if !out.states[LedGreen] {
		t.Fatal("Setup failed, expected green")
	}

	// A fault raised mid-cycle is not reflected until the next signal
	// phase.
	shared.FaultActive.Store(true)
	for i := 0; i < IndicatorCycle/2-2; i++ {
		ind.Update()
	}
	if out.states[LedRed] {
		t.Error("Fault must not change the pattern mid-cycle")
	}

	// Run through the clear and the wrap into the next signal phase.
	for i := 0; i < IndicatorCycle; i++ {
		ind.Update()
	}
	if !out.states[LedRed] {
		t.Error("Expected red at the next signal phase")
	}
}
