package control

import (
	"errors"
	"testing"

	"motor-controller/internal/logger"
)

type mockAnalogInput struct {
	raw   uint16
	err   error
	reads int
}

func (m *mockAnalogInput) ReadCommandRaw() (uint16, error) {
	m.reads++
	return m.raw, m.err
}

func newTestAcquisition(raw uint16) (*CommandAcquisition, *mockAnalogInput) {
	adc := &mockAnalogInput{raw: raw}
	l := logger.NewLogger(nil, logger.LogLevelError)
	return NewCommandAcquisition(adc, l), adc
}

func TestCommandInitialValueIsFloor(t *testing.T) {
	acq, _ := newTestAcquisition(0)
	if acq.Command() != CommandFloor {
		t.Errorf("Expected initial command %d, got %d", CommandFloor, acq.Command())
	}
}

func TestCommandDecimation(t *testing.T) {
	acq, adc := newTestAcquisition(0x800)

	// The first nine invocations hold the initial value without touching
	// the ADC.
	for i := 0; i < DecimationPeriod-1; i++ {
		if got := acq.Update(); got != CommandFloor {
			t.Fatalf("Expected held value %d at invocation %d, got %d", CommandFloor, i, got)
		}
	}
	if adc.reads != 0 {
		t.Fatalf("Expected no ADC reads before the boundary, got %d", adc.reads)
	}

	// The tenth samples, scales 0x800 down to 128 and emits it.
	if got := acq.Update(); got != 128 {
		t.Errorf("Expected 128 at the boundary, got %d", got)
	}
	if adc.reads != 1 {
		t.Errorf("Expected exactly one ADC read, got %d", adc.reads)
	}

	// One read per period from then on.
	for i := 0; i < 3*DecimationPeriod; i++ {
		acq.Update()
	}
	if adc.reads != 4 {
		t.Errorf("Expected 4 ADC reads after 4 periods, got %d", adc.reads)
	}
}

func TestCommandFloorClamp(t *testing.T) {
	acq, _ := newTestAcquisition(0x050)

	// 0x050 scales to 5, below the floor.
	for i := 0; i < DecimationPeriod; i++ {
		acq.Update()
	}
	if acq.Command() != CommandFloor {
		t.Errorf("Expected floor %d for sub-floor sample, got %d", CommandFloor, acq.Command())
	}
}

func TestCommandFullScale(t *testing.T) {
	acq, _ := newTestAcquisition(0xFF0)

	for i := 0; i < DecimationPeriod; i++ {
		acq.Update()
	}
	if acq.Command() != 255 {
		t.Errorf("Expected 255 for full-scale sample, got %d", acq.Command())
	}
}

func TestCommandReadErrorHoldsValue(t *testing.T) {
	acq, adc := newTestAcquisition(0x800)

	for i := 0; i < DecimationPeriod; i++ {
		acq.Update()
	}
	if acq.Command() != 128 {
		t.Fatalf("Setup failed, command %d", acq.Command())
	}

	// A failed sample holds the previous command but still consumes the
	// boundary.
	adc.err = errors.New("iio read failed")
	adc.raw = 0xFF0
	for i := 0; i < DecimationPeriod; i++ {
		if got := acq.Update(); got != 128 {
			t.Fatalf("Expected held value 128 during error, got %d", got)
		}
	}
	if adc.reads != 2 {
		t.Errorf("Expected the failed boundary to consume one read, got %d total", adc.reads)
	}

	// The next boundary recovers with the fresh sample.
	adc.err = nil
	for i := 0; i < DecimationPeriod; i++ {
		acq.Update()
	}
	if acq.Command() != 255 {
		t.Errorf("Expected 255 after recovery, got %d", acq.Command())
	}
}
