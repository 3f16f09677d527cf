package fsm

import "github.com/librescoot/librefsm"

// Actions is implemented by MotorSystem to react to lifecycle changes: the
// entry actions latch/clear the shared fault flag consumed by the indicator
// and mirror the state to the command plane.
type Actions interface {
	EnterOperational(c *librefsm.Context) error
	EnterFaulted(c *librefsm.Context) error
	EnterFaultAck(c *librefsm.Context) error
	EnterShuttingDown(c *librefsm.Context) error
}
