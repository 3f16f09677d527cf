package control

import (
	"motor-controller/internal/logger"
	"motor-controller/internal/types"
)

// BinaryInput is a single-sample read of the direction switch.
type BinaryInput interface {
	ReadDirectionSwitch() (bool, error)
}

// Step identifies one of the scheduler's per-tick tasks.
type Step uint8

const (
	StepWatchdog Step = iota
	StepDebounce
	StepIndicator
	StepCommand
	StepSample
	StepRegulate
)

func (s Step) String() string {
	switch s {
	case StepWatchdog:
		return "watchdog"
	case StepDebounce:
		return "debounce"
	case StepIndicator:
		return "indicator"
	case StepCommand:
		return "command"
	case StepSample:
		return "sample"
	case StepRegulate:
		return "regulate"
	default:
		return "unknown"
	}
}

// Scheduler fans the fixed-rate hardware tick out into the resident tasks.
// OnTick dispatches exactly one step per tick, cycling through all StepCount
// steps in order, so every task runs at 1/StepCount of the tick rate and each
// tick's work stays bounded. OnTick runs entirely in the tick context and
// never blocks; the only state it shares with other contexts lives in
// SharedState.
type Scheduler struct {
	logger    *logger.Logger
	shared    *SharedState
	filter    *DebounceFilter
	acq       *CommandAcquisition
	indicator *Indicator
	regulator Regulator
	watchdog  *Watchdog
	dirSwitch BinaryInput

	tick  uint64
	step  Step
	cycle uint64

	// onDirectionEdge fires when the debounced (pre-override) direction
	// flips; the lifecycle machine uses these edges for fault
	// acknowledgment.
	onDirectionEdge func(from, to types.Direction)
}

type SchedulerDeps struct {
	Shared    *SharedState
	Filter    *DebounceFilter
	Acq       *CommandAcquisition
	Indicator *Indicator
	Regulator Regulator
	Watchdog  *Watchdog
	DirSwitch BinaryInput

	OnDirectionEdge func(from, to types.Direction)
}

func NewScheduler(deps SchedulerDeps, l *logger.Logger) *Scheduler {
	return &Scheduler{
		logger:          l.WithTag("Scheduler"),
		shared:          deps.Shared,
		filter:          deps.Filter,
		acq:             deps.Acq,
		indicator:       deps.Indicator,
		regulator:       deps.Regulator,
		watchdog:        deps.Watchdog,
		dirSwitch:       deps.DirSwitch,
		onDirectionEdge: deps.OnDirectionEdge,
	}
}

// OnTick is invoked once per hardware period.
func (s *Scheduler) OnTick() {
	step := s.step

	s.tick++
	s.step++
	if s.step >= StepCount {
		s.step = 0
		s.cycle++
	}

	switch step {
	case StepWatchdog:
		s.watchdog.Kick()
	case StepDebounce:
		s.runDebounce()
	case StepIndicator:
		s.indicator.Update()
	case StepCommand:
		s.runCommand()
	case StepSample:
		s.regulator.Sample()
	case StepRegulate:
		s.runRegulate()
	}
}

func (s *Scheduler) runDebounce() {
	raw, err := s.dirSwitch.ReadDirectionSwitch()
	if err != nil {
		s.logger.Warnf("Direction switch read failed: %v", err)
		return
	}

	prev := s.filter.Direction()
	filtered := s.filter.Update(raw)
	if filtered != prev && s.onDirectionEdge != nil {
		s.onDirectionEdge(prev, filtered)
	}

	// The command context's direction wins while override is active; the
	// filter keeps tracking the switch underneath so edges stay visible.
	effective := filtered
	if s.shared.OverrideActive.Load() {
		effective = types.Direction(s.shared.OverrideDirection.Load())
	}
	s.shared.Direction.Store(uint32(effective))
}

func (s *Scheduler) runCommand() {
	cmd := s.acq.Update()
	if s.shared.OverrideActive.Load() {
		// Override bypasses both decimation and the floor clamp.
		cmd = uint8(s.shared.OverrideCommand.Load())
	}
	s.shared.Command.Store(uint32(cmd))
}

func (s *Scheduler) runRegulate() {
	cmd := s.shared.EffectiveCommand()
	dir := s.shared.EffectiveDirection()
	if err := s.regulator.Regulate(cmd, dir); err != nil {
		s.logger.Warnf("Regulator update failed: %v", err)
	}
}

// TickCount returns the number of ticks observed since start.
func (s *Scheduler) TickCount() uint64 {
	return s.tick
}

// StepIndex returns the step the next tick will dispatch.
func (s *Scheduler) StepIndex() Step {
	return s.step
}

// Cycle returns the number of completed step cycles.
func (s *Scheduler) Cycle() uint64 {
	return s.cycle
}
