package control

import (
	"testing"

	"motor-controller/internal/types"
)

type mockActuator struct {
	duties []uint8
	err    error
}

func (m *mockActuator) SetDuty(level uint8) error {
	m.duties = append(m.duties, level)
	return m.err
}

func TestNewRegulatorSelectsVariant(t *testing.T) {
	act := &mockActuator{}

	if _, ok := NewRegulator(types.LoopSpeed, act, nil).(*SpeedRegulator); !ok {
		t.Error("Expected SpeedRegulator for speed mode")
	}
	if _, ok := NewRegulator(types.LoopTorque, act, nil).(*TorqueRegulator); !ok {
		t.Error("Expected TorqueRegulator for torque mode")
	}
}

func TestRegulateClampsModulation(t *testing.T) {
	act := &mockActuator{}
	r := NewRegulator(types.LoopSpeed, act, nil)

	cases := []struct {
		command uint8
		want    uint8
	}{
		{0, ModulationMin},
		{CommandFloor, ModulationMin},
		{ModulationMin, ModulationMin},
		{180, 180},
		{ModulationMax, ModulationMax},
		{255, ModulationMax},
	}
	for _, c := range cases {
		act.duties = nil
		if err := r.Regulate(c.command, types.DirectionForward); err != nil {
			t.Fatalf("Regulate(%d) failed: %v", c.command, err)
		}
		if len(act.duties) != 1 || act.duties[0] != c.want {
			t.Errorf("Regulate(%d): expected duty %d, got %v", c.command, c.want, act.duties)
		}
	}
}

func TestRegulatePropagatesActuatorError(t *testing.T) {
	act := &mockActuator{err: errTest}
	r := NewRegulator(types.LoopTorque, act, nil)

	if err := r.Regulate(200, types.DirectionReverse); err == nil {
		t.Error("Expected actuator error to propagate")
	}
}
