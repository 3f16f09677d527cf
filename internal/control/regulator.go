package control

import (
	"motor-controller/internal/types"
)

// Actuator applies a modulation index to the power stage.
type Actuator interface {
	SetDuty(level uint8) error
}

// Regulator is the commutation-control extension point. Sample and Regulate
// are each dispatched on their own scheduler step and must stay bounded; the
// loop math itself lives in future implementations.
//
// A regulator that detects a hardware fault reports it through the raise
// callback; the lifecycle machine then holds the controller in the fault
// pattern until the operator acknowledges it at the direction switch.
type Regulator interface {
	// Sample captures whatever feedback the loop needs for its next pass.
	Sample()
	// Regulate consumes the current command and debounced direction and
	// produces the actuation output.
	Regulate(command uint8, direction types.Direction) error
}

// NewRegulator selects the regulator variant for the configured loop mode.
func NewRegulator(mode types.LoopMode, act Actuator, raiseFault func()) Regulator {
	if mode == types.LoopTorque {
		return &TorqueRegulator{act: act, raiseFault: raiseFault}
	}
	return &SpeedRegulator{act: act, raiseFault: raiseFault}
}

// clampModulation keeps the actuation inside the power stage's legal
// modulation window.
func clampModulation(command uint8) uint8 {
	if command < ModulationMin {
		return ModulationMin
	}
	if command > ModulationMax {
		return ModulationMax
	}
	return command
}

// SpeedRegulator closes the loop on rotor speed. The compensation math is an
// extension point; until it lands the command passes straight through the
// modulation clamp.
type SpeedRegulator struct {
	act        Actuator
	raiseFault func()
	lastCmd    uint8
	lastDir    types.Direction
}

func (r *SpeedRegulator) Sample() {
	// Speed feedback capture goes here once back-EMF sensing exists.
}

func (r *SpeedRegulator) Regulate(command uint8, direction types.Direction) error {
	r.lastCmd = command
	r.lastDir = direction
	return r.act.SetDuty(clampModulation(command))
}

// TorqueRegulator closes the loop on phase current. Like the speed variant,
// only the actuation plumbing exists.
type TorqueRegulator struct {
	act        Actuator
	raiseFault func()
	lastCmd    uint8
	lastDir    types.Direction
}

func (r *TorqueRegulator) Sample() {
	// Current feedback capture goes here once the shunt amplifier is read.
}

func (r *TorqueRegulator) Regulate(command uint8, direction types.Direction) error {
	r.lastCmd = command
	r.lastDir = direction
	return r.act.SetDuty(clampModulation(command))
}
