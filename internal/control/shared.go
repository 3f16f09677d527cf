package control

import (
	"go.uber.org/atomic"

	"motor-controller/internal/types"
)

// SharedState is the only state touched by more than one execution context.
// Every field is an atomic scalar with a single writer:
//
//   - OverrideActive, OverrideDirection, OverrideCommand: written by the
//     command context (Redis handlers), read by the tick context.
//   - FaultActive: written by the lifecycle state machine, read by the tick
//     context (indicator).
//   - Direction, Command: written by the tick context, read by the status
//     reporter.
//
// No multi-field invariant needs to hold transiently, so no locking is
// required; the atomic width only guards against torn reads of individual
// fields.
type SharedState struct {
	OverrideActive    atomic.Bool
	OverrideDirection atomic.Uint32
	OverrideCommand   atomic.Uint32

	FaultActive atomic.Bool

	Direction atomic.Uint32
	Command   atomic.Uint32
}

func NewSharedState() *SharedState {
	s := &SharedState{}
	s.Command.Store(CommandFloor)
	return s
}

// EffectiveDirection is the direction the tick context last published.
func (s *SharedState) EffectiveDirection() types.Direction {
	return types.Direction(s.Direction.Load())
}

// EffectiveCommand is the command value the tick context last published.
func (s *SharedState) EffectiveCommand() uint8 {
	return uint8(s.Command.Load())
}

// SetOverrideDirection stores the command context's direction choice. It is
// consumed only while override is active.
func (s *SharedState) SetOverrideDirection(d types.Direction) {
	s.OverrideDirection.Store(uint32(d))
}

// SetOverrideCommand stores the command context's command value.
func (s *SharedState) SetOverrideCommand(v uint8) {
	s.OverrideCommand.Store(uint32(v))
}
