package fsm

import (
	"github.com/librescoot/librefsm"
)

// NewDefinition builds the controller lifecycle machine.
//
// The fault path reproduces the manual acknowledgment contract: a raised
// fault holds the controller in StateFaulted until the operator cycles the
// direction switch: closing it moves to StateFaultAck, opening it again
// clears the fault. A fault raised during acknowledgment falls back to
// StateFaulted.
func NewDefinition(actions Actions) *librefsm.Definition {
	return librefsm.NewDefinition().
		State(StateInit).
		State(StateOperational,
			librefsm.WithOnEnter(actions.EnterOperational),
		).
		State(StateFaulted,
			librefsm.WithOnEnter(actions.EnterFaulted),
		).
		State(StateFaultAck,
			librefsm.WithOnEnter(actions.EnterFaultAck),
		).
		State(StateShuttingDown,
			librefsm.WithOnEnter(actions.EnterShuttingDown),
		).

		// Startup
		Transition(StateInit, EvStarted, StateOperational).

		// Fault entry: only the regulator raises faults.
		Transition(StateOperational, EvFaultRaised, StateFaulted).

		// Manual acknowledgment at the direction switch.
		Transition(StateFaulted, EvSwitchClosed, StateFaultAck).
		Transition(StateFaultAck, EvSwitchOpened, StateOperational).
		Transition(StateFaultAck, EvFaultRaised, StateFaulted).

		// Shutdown from anywhere.
		Transition(StateInit, EvShutdown, StateShuttingDown).
		Transition(StateOperational, EvShutdown, StateShuttingDown).
		Transition(StateFaulted, EvShutdown, StateShuttingDown).
		Transition(StateFaultAck, EvShutdown, StateShuttingDown).

		Initial(StateInit)
}
