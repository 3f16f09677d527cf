package hardware

import (
	"encoding/binary"
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"motor-controller/internal/logger"
)

// TimerfdTicker is the periodic tick source, implemented on a monotonic
// timerfd so the kernel keeps the period; the handler is invoked once per
// expiration from a dedicated goroutine.
//
// If the handler runs longer than the period the kernel accumulates
// expirations and the next read reports more than one; missed periods are
// reported through the overrun handler and are NOT replayed, because a missed
// deadline is a timing fault, not work to catch up on.
type TimerfdTicker struct {
	period    time.Duration
	logger    *logger.Logger
	stopChan  chan struct{}
	done      chan struct{}
	onOverrun func(missed uint64)
}

func NewTimerfdTicker(period time.Duration, l *logger.Logger) *TimerfdTicker {
	return &TimerfdTicker{
		period:   period,
		logger:   l.WithTag("Tick"),
		stopChan: make(chan struct{}),
	}
}

// SetOverrunHandler registers the callback invoked with the number of missed
// periods when the tick handler overruns. Must be called before Start.
func (t *TimerfdTicker) SetOverrunHandler(fn func(missed uint64)) {
	t.onOverrun = fn
}

func (t *TimerfdTicker) Start(fn func()) error {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_CLOEXEC)
	if err != nil {
		return fmt.Errorf("failed to create timerfd: %w", err)
	}

	interval := unix.NsecToTimespec(t.period.Nanoseconds())
	spec := unix.ItimerSpec{Interval: interval, Value: interval}
	if err := unix.TimerfdSettime(fd, 0, &spec, nil); err != nil {
		unix.Close(fd)
		return fmt.Errorf("failed to arm timerfd: %w", err)
	}

	t.done = make(chan struct{})
	t.logger.Infof("Tick source armed: period=%s", t.period)
	go t.run(fd, fn)
	return nil
}

// run owns the timerfd: it is the only goroutine that reads or closes it.
// A stop is observed on the next expiration, at most one period after the
// stop channel closes.
func (t *TimerfdTicker) run(fd int, fn func()) {
	defer close(t.done)
	defer unix.Close(fd)

	buf := make([]byte, 8)
	for {
		n, err := unix.Read(fd, buf)
		select {
		case <-t.stopChan:
			return
		default:
		}
		if err != nil {
			t.logger.Errorf("Tick read failed: %v", err)
			return
		}
		if n != 8 {
			continue
		}

		expirations := binary.LittleEndian.Uint64(buf)
		if expirations > 1 && t.onOverrun != nil {
			t.onOverrun(expirations - 1)
		}
		fn()
	}
}

// Stop signals the tick goroutine and waits for it to release the timerfd.
func (t *TimerfdTicker) Stop() {
	close(t.stopChan)
	if t.done != nil {
		<-t.done
	}
	t.logger.Infof("Tick source stopped")
}
