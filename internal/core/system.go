package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/librescoot/librefsm"

	"motor-controller/internal/control"
	"motor-controller/internal/fsm"
	"motor-controller/internal/logger"
	"motor-controller/internal/messaging"
	"motor-controller/internal/types"
)

const statusReportPeriod = time.Second

type Config struct {
	RedisHost  string
	RedisPort  int
	TickPeriod time.Duration
	LoopMode   types.LoopMode

	// WatchdogTolerance is how stale the tick-context liveness kick may
	// get before the stall is treated as a fatal timing fault. Zero
	// derives a default from the tick period.
	WatchdogTolerance time.Duration
}

func DefaultConfig() Config {
	return Config{
		RedisHost:  "127.0.0.1",
		RedisPort:  6379,
		TickPeriod: 500 * time.Microsecond,
		LoopMode:   types.LoopSpeed,
	}
}

func (c Config) watchdogTolerance() time.Duration {
	if c.WatchdogTolerance > 0 {
		return c.WatchdogTolerance
	}
	// The kick lands once per scheduler pass; leave generous headroom for
	// OS scheduling jitter before declaring the tick dead.
	return 64 * control.StepCount * c.TickPeriod
}

// MotorSystem owns the controller: the shared-state aggregate, the tick
// scheduler and its tasks, the lifecycle machine, and the Redis command
// plane. All of that state is created once at startup and lives until
// Shutdown.
type MotorSystem struct {
	cfg    Config
	logger *logger.Logger
	io     HardwareIO
	ticker TickSource
	redis  MessagingClient

	shared    *control.SharedState
	filter    *control.DebounceFilter
	sched     *control.Scheduler
	watchdog  *control.Watchdog
	machine   *librefsm.Machine
	regulator control.Regulator

	mu           sync.RWMutex
	initialized  bool
	reporterStop chan struct{}
	reporterWg   sync.WaitGroup
}

func NewMotorSystem(cfg Config, io HardwareIO, ticker TickSource, redis MessagingClient, l *logger.Logger) *MotorSystem {
	return &MotorSystem{
		cfg:    cfg,
		logger: l.WithTag("Motor"),
		io:     io,
		ticker: ticker,
		redis:  redis,
		shared: control.NewSharedState(),
	}
}

func (m *MotorSystem) Start() error {
	m.logger.Infof("Starting motor controller (loop=%s, tick=%s)", m.cfg.LoopMode, m.cfg.TickPeriod)

	m.redis.SetCallbacks(messaging.Callbacks{
		ModeCallback:      m.handleModeRequest,
		DirectionCallback: m.handleDirectionRequest,
		SpeedCallback:     m.handleSpeedRequest,
		StatusCallback:    m.handleStatusRequest,
	})

	if err := m.redis.Connect(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if err := m.io.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize hardware: %w", err)
	}

	if err := m.initFSM(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize state machine: %w", err)
	}

	m.regulator = control.NewRegulator(m.cfg.LoopMode, m.io, m.RaiseFault)
	m.watchdog = control.NewWatchdog(m.cfg.watchdogTolerance(), m.handleTickStall)
	m.filter = control.NewDebounceFilter()
	m.sched = control.NewScheduler(control.SchedulerDeps{
		Shared:          m.shared,
		Filter:          m.filter,
		Acq:             control.NewCommandAcquisition(m.io, m.logger),
		Indicator:       control.NewIndicator(m.io, m.shared, m.logger),
		Regulator:       m.regulator,
		Watchdog:        m.watchdog,
		DirSwitch:       m.io,
		OnDirectionEdge: m.handleDirectionEdge,
	}, m.logger)

	m.ticker.SetOverrunHandler(m.handleTickOverrun)
	if err := m.ticker.Start(m.sched.OnTick); err != nil {
		return fmt.Errorf("failed to start tick source: %w", err)
	}
	m.watchdog.Start()

	if err := m.sendEvent(fsm.EvStarted); err != nil {
		return fmt.Errorf("failed to enter operational state: %w", err)
	}

	m.reporterStop = make(chan struct{})
	m.reporterWg.Add(1)
	go m.statusReporter()

	if err := m.redis.StartListening(); err != nil {
		return fmt.Errorf("failed to start Redis listeners: %w", err)
	}

	m.mu.Lock()
	m.initialized = true
	m.mu.Unlock()

	m.logger.Infof("Motor controller started")
	return nil
}

func (m *MotorSystem) Shutdown() {
	m.logger.Infof("Shutting down")

	if err := m.sendEvent(fsm.EvShutdown); err != nil {
		m.logger.Warnf("Failed to enter shutting-down state: %v", err)
	}

	if m.ticker != nil {
		m.ticker.Stop()
	}
	if m.watchdog != nil {
		m.watchdog.Stop()
	}
	if m.reporterStop != nil {
		close(m.reporterStop)
		m.reporterWg.Wait()
		m.reporterStop = nil
	}
	if m.redis != nil {
		m.redis.Close()
	}
	if m.io != nil {
		m.io.Cleanup()
	}

	m.logger.Infof("Shutdown complete")
}

// statusReporter periodically mirrors the live snapshot to the command
// plane. It runs off the tick path and only reads atomic fields the tick
// context publishes.
func (m *MotorSystem) statusReporter() {
	defer m.reporterWg.Done()

	ticker := time.NewTicker(statusReportPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-m.reporterStop:
			return
		case <-ticker.C:
			m.publishStatus()
		}
	}
}

// isInitialized reports whether Start has completed. Command handlers run in
// listener goroutines that come up before initialization finishes, so they
// check this before acting.
func (m *MotorSystem) isInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

func (m *MotorSystem) publishStatus() error {
	if err := m.redis.PublishStatus(
		m.shared.EffectiveDirection(),
		m.shared.EffectiveCommand(),
		m.shared.OverrideActive.Load(),
	); err != nil {
		m.logger.Warnf("Failed to publish status: %v", err)
		return err
	}
	return nil
}

// handleTickOverrun reacts to the tick source reporting missed periods. A
// missed deadline means a task overran its budget; there is nothing safe to
// resume.
func (m *MotorSystem) handleTickOverrun(missed uint64) {
	m.logger.Fatalf("Tick deadline violated: %d period(s) missed", missed)
}

// handleTickStall reacts to the watchdog finding a stale liveness kick.
func (m *MotorSystem) handleTickStall(age time.Duration) {
	m.logger.Fatalf("Tick context stalled: no liveness kick for %s", age)
}
