package core

import (
	"motor-controller/internal/messaging"
	"motor-controller/internal/types"
)

// MessagingClient is the command-plane surface MotorSystem needs.
type MessagingClient interface {
	SetCallbacks(callbacks messaging.Callbacks)
	Connect() error
	StartListening() error
	Close() error

	PublishControllerState(state types.ControllerState) error
	PublishStatus(direction types.Direction, command uint8, overridden bool) error
	PublishFault(active bool) error
}

// HardwareIO is the peripheral surface MotorSystem needs: single-sample
// inputs, the indicator outputs, and the actuation duty output.
type HardwareIO interface {
	Initialize() error
	Cleanup()

	ReadDirectionSwitch() (bool, error)
	ReadCommandRaw() (uint16, error)
	WriteDigitalOutput(channel string, value bool) error
	SetDuty(level uint8) error
}

// TickSource delivers the fixed-period hardware tick. The handler passed to
// Start must be bounded; missed periods surface through the overrun handler.
type TickSource interface {
	SetOverrunHandler(fn func(missed uint64))
	Start(fn func()) error
	Stop()
}
