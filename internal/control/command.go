package control

import (
	"motor-controller/internal/logger"
)

// AnalogInput is a single-sample read of the command potentiometer. The
// reading is wider than the 8-bit command range (12-bit ADC).
type AnalogInput interface {
	ReadCommandRaw() (uint16, error)
}

// CommandAcquisition decimates the analog command source: only every
// DecimationPeriod-th invocation reads the ADC, scales the sample down to
// 8 bits and raises it to the floor; between boundaries the previous command
// is held. Acquisition keeps running while an override is active, so the
// decimation phase is preserved when control returns to the sensors.
type CommandAcquisition struct {
	adc     AnalogInput
	logger  *logger.Logger
	count   uint
	period  uint
	floor   uint8
	command uint8
}

func NewCommandAcquisition(adc AnalogInput, l *logger.Logger) *CommandAcquisition {
	return &CommandAcquisition{
		adc:    adc,
		logger: l.WithTag("Command"),
		period: DecimationPeriod,
		floor:  CommandFloor,
		// The initial command is the floor, matching the first clamped
		// sample a stopped pot would produce.
		command: CommandFloor,
	}
}

// Update advances the decimator and returns the held command value. A failed
// ADC read keeps the previous value; the boundary is still consumed.
func (c *CommandAcquisition) Update() uint8 {
	c.count++
	if c.count >= c.period {
		c.count = 0
		raw, err := c.adc.ReadCommandRaw()
		if err != nil {
			c.logger.Warnf("Command sample failed, holding %d: %v", c.command, err)
			return c.command
		}
		scaled := uint8(raw >> AdcShift)
		if scaled < c.floor {
			scaled = c.floor
		}
		c.command = scaled
	}
	return c.command
}

// Command returns the held value without advancing the decimator.
func (c *CommandAcquisition) Command() uint8 {
	return c.command
}
