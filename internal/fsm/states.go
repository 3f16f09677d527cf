package fsm

import "github.com/librescoot/librefsm"

// Controller states
const (
	StateInit         librefsm.StateID = "init"
	StateOperational  librefsm.StateID = "operational"
	StateFaulted      librefsm.StateID = "faulted"
	StateFaultAck     librefsm.StateID = "fault-ack"
	StateShuttingDown librefsm.StateID = "shutting-down"
)

// Controller events
const (
	// EvStarted fires once hardware and the tick source are up.
	EvStarted librefsm.EventID = "started"

	// EvFaultRaised comes from the regulator extension point.
	EvFaultRaised librefsm.EventID = "fault-raised"

	// Switch edges, derived from the debounced direction input. A fault is
	// acknowledged by cycling the switch: open -> closed -> open.
	EvSwitchClosed librefsm.EventID = "switch-closed"
	EvSwitchOpened librefsm.EventID = "switch-opened"

	EvShutdown librefsm.EventID = "shutdown"
)
