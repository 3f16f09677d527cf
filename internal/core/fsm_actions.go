package core

import (
	"context"
	"fmt"

	"github.com/librescoot/librefsm"

	"motor-controller/internal/fsm"
	"motor-controller/internal/types"
)

// initFSM builds and starts the lifecycle machine; MotorSystem implements
// fsm.Actions.
func (m *MotorSystem) initFSM(ctx context.Context) error {
	def := fsm.NewDefinition(m)
	machine, err := def.Build()
	if err != nil {
		return fmt.Errorf("failed to build state machine: %w", err)
	}
	m.machine = machine

	m.machine.OnStateChange(func(from, to librefsm.StateID) {
		m.logger.Infof("State transition: %s -> %s", from, to)
	})

	if err := m.machine.Start(ctx); err != nil {
		return fmt.Errorf("failed to start state machine: %w", err)
	}
	return nil
}

func (m *MotorSystem) sendEvent(event librefsm.EventID) error {
	return m.machine.SendSync(librefsm.Event{ID: event})
}

// getCurrentState returns the lifecycle state as its wire form.
func (m *MotorSystem) getCurrentState() types.ControllerState {
	if m.machine == nil {
		return types.StateInit
	}
	return types.ControllerState(m.machine.CurrentState())
}

// RaiseFault is the hook handed to the regulator extension point. It may be
// called from the tick context; Send queues the event without blocking on
// the entry actions.
func (m *MotorSystem) RaiseFault() {
	m.logger.Errorf("Regulator raised a fault")
	m.machine.Send(librefsm.Event{ID: fsm.EvFaultRaised})
}

// handleDirectionEdge translates debounced direction flips into switch
// events for fault acknowledgment. A closed switch drives the filter toward
// Forward, an open one toward Reverse.
func (m *MotorSystem) handleDirectionEdge(from, to types.Direction) {
	m.logger.Debugf("Direction edge: %s -> %s", from, to)
	if to == types.DirectionForward {
		m.machine.Send(librefsm.Event{ID: fsm.EvSwitchClosed})
	} else {
		m.machine.Send(librefsm.Event{ID: fsm.EvSwitchOpened})
	}
}

// === fsm.Actions ===

func (m *MotorSystem) EnterOperational(c *librefsm.Context) error {
	m.shared.FaultActive.Store(false)
	if err := m.redis.PublishFault(false); err != nil {
		m.logger.Warnf("Failed to publish fault clear: %v", err)
	}
	return m.redis.PublishControllerState(types.StateOperational)
}

func (m *MotorSystem) EnterFaulted(c *librefsm.Context) error {
	m.shared.FaultActive.Store(true)
	if err := m.redis.PublishFault(true); err != nil {
		m.logger.Warnf("Failed to publish fault: %v", err)
	}
	return m.redis.PublishControllerState(types.StateFaulted)
}

func (m *MotorSystem) EnterFaultAck(c *librefsm.Context) error {
	// Fault stays latched until the switch opens again.
	return m.redis.PublishControllerState(types.StateFaultAck)
}

func (m *MotorSystem) EnterShuttingDown(c *librefsm.Context) error {
	return m.redis.PublishControllerState(types.StateShuttingDown)
}
