package control

import (
	"sync"
	"testing"

	"motor-controller/internal/types"
)

func TestSharedStateDefaults(t *testing.T) {
	s := NewSharedState()

	if s.EffectiveCommand() != CommandFloor {
		t.Errorf("Expected initial command %d, got %d", CommandFloor, s.EffectiveCommand())
	}
	if s.EffectiveDirection() != types.DirectionForward {
		t.Errorf("Expected initial direction Forward, got %v", s.EffectiveDirection())
	}
	if s.OverrideActive.Load() || s.FaultActive.Load() {
		t.Error("Expected override and fault flags clear")
	}
}

func TestSharedStateOverrideSetters(t *testing.T) {
	s := NewSharedState()

	s.SetOverrideDirection(types.DirectionReverse)
	s.SetOverrideCommand(210)

	if types.Direction(s.OverrideDirection.Load()) != types.DirectionReverse {
		t.Error("Override direction not stored")
	}
	if uint8(s.OverrideCommand.Load()) != 210 {
		t.Error("Override command not stored")
	}
}

// Each field has a single writer and arbitrary readers; concurrent access
// must only ever observe values that were actually written.
func TestSharedStateNoTornReads(t *testing.T) {
	s := NewSharedState()

	const iterations = 10000
	valA, valB := uint8(0x00), uint8(0xFF)
	s.Command.Store(uint32(valA))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			if i%2 == 0 {
				s.Command.Store(uint32(valA))
			} else {
				s.Command.Store(uint32(valB))
			}
		}
		close(stop)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				got := s.EffectiveCommand()
				if got != valA && got != valB {
					t.Errorf("Torn read: %d", got)
					return
				}
			}
		}()
	}

	wg.Wait()
}
