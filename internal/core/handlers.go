package core

import (
	"fmt"

	"motor-controller/internal/types"
)

// handleModeRequest switches between normal acquisition and remote override.
// Entering override seeds the override fields with the values currently in
// effect so the outputs do not jump at the mode boundary.
func (m *MotorSystem) handleModeRequest(mode string) error {
	if !m.isInitialized() {
		return fmt.Errorf("mode command ignored, controller not initialized")
	}
	switch mode {
	case "override":
		if m.shared.OverrideActive.Load() {
			return nil
		}
		m.shared.SetOverrideDirection(m.shared.EffectiveDirection())
		m.shared.SetOverrideCommand(m.shared.EffectiveCommand())
		m.shared.OverrideActive.Store(true)
		m.logger.Infof("Override mode engaged")
	case "auto":
		if !m.shared.OverrideActive.Load() {
			return nil
		}
		m.shared.OverrideActive.Store(false)
		m.logger.Infof("Override mode released")
	default:
		return fmt.Errorf("unknown mode: %s", mode)
	}
	return m.publishStatus()
}

func (m *MotorSystem) handleDirectionRequest(dir types.Direction) error {
	if !m.isInitialized() {
		return fmt.Errorf("direction command ignored, controller not initialized")
	}
	if !m.shared.OverrideActive.Load() {
		return fmt.Errorf("direction command ignored, override not active")
	}
	m.shared.SetOverrideDirection(dir)
	m.logger.Infof("Override direction set to %s", dir)
	return nil
}

func (m *MotorSystem) handleSpeedRequest(speed uint8) error {
	if !m.isInitialized() {
		return fmt.Errorf("speed command ignored, controller not initialized")
	}
	if !m.shared.OverrideActive.Load() {
		return fmt.Errorf("speed command ignored, override not active")
	}
	m.shared.SetOverrideCommand(speed)
	m.logger.Infof("Override command set to %d", speed)
	return nil
}

func (m *MotorSystem) handleStatusRequest() error {
	if !m.isInitialized() {
		return fmt.Errorf("status request ignored, controller not initialized")
	}
	return m.publishStatus()
}
