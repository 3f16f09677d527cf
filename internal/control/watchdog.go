package control

import (
	"time"

	"go.uber.org/atomic"
)

// Watchdog detects tick stalls. The scheduler kicks it once per pass from
// the tick context; a monitor goroutine checks the kick age and reports a
// stall once it exceeds the tolerance. A stall is a timing fault; the
// handler is expected to treat it as fatal, not to retry.
type Watchdog struct {
	lastKick  atomic.Int64
	tolerance time.Duration
	onStall   func(age time.Duration)
	stopChan  chan struct{}
}

func NewWatchdog(tolerance time.Duration, onStall func(age time.Duration)) *Watchdog {
	return &Watchdog{
		tolerance: tolerance,
		onStall:   onStall,
		stopChan:  make(chan struct{}),
	}
}

// Kick refreshes the liveness timestamp. Called from the tick context; a
// single atomic store, nothing more.
func (w *Watchdog) Kick() {
	w.lastKick.Store(time.Now().UnixNano())
}

// Start arms the monitor. The first kick deadline starts now.
func (w *Watchdog) Start() {
	w.Kick()
	go w.monitor()
}

func (w *Watchdog) monitor() {
	interval := w.tolerance / 2
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			age := time.Duration(time.Now().UnixNano() - w.lastKick.Load())
			if age > w.tolerance {
				w.onStall(age)
				return
			}
		}
	}
}

func (w *Watchdog) Stop() {
	close(w.stopChan)
}
