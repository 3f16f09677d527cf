package hardware

import (
	"testing"
	"time"

	"go.uber.org/atomic"

	"motor-controller/internal/logger"
)

func TestTimerfdTickerDeliversTicks(t *testing.T) {
	l := logger.NewLogger(nil, logger.LogLevelError)
	ticker := NewTimerfdTicker(time.Millisecond, l)

	var count atomic.Uint64
	if err := ticker.Start(func() { count.Inc() }); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	ticker.Stop()

	if count.Load() == 0 {
		t.Error("Expected at least one tick")
	}
}

func TestTimerfdTickerStopQuiescesHandler(t *testing.T) {
	l := logger.NewLogger(nil, logger.LogLevelError)
	ticker := NewTimerfdTicker(200*time.Microsecond, l)

	var count atomic.Uint64
	if err := ticker.Start(func() { count.Inc() }); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	// Stop waits for the tick goroutine to exit, so no handler invocation
	// may follow it.
	ticker.Stop()
	after := count.Load()

	time.Sleep(10 * time.Millisecond)
	if got := count.Load(); got != after {
		t.Errorf("Handler ran after Stop: %d ticks became %d", after, got)
	}
}
