package control

import (
	"testing"
	"time"
)

func TestWatchdogReportsStall(t *testing.T) {
	stalled := make(chan time.Duration, 1)
	w := NewWatchdog(20*time.Millisecond, func(age time.Duration) {
		select {
		case stalled <- age:
		default:
		}
	})
	w.Start()
	defer w.Stop()

	select {
	case age := <-stalled:
		if age <= 20*time.Millisecond {
			t.Errorf("Reported age %s not past tolerance", age)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected a stall report, got none")
	}
}

func TestWatchdogKickPreventsStall(t *testing.T) {
	stalled := make(chan time.Duration, 1)
	w := NewWatchdog(50*time.Millisecond, func(age time.Duration) {
		select {
		case stalled <- age:
		default:
		}
	})
	w.Start()
	defer w.Stop()

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(200 * time.Millisecond)
	for {
		select {
		case <-ticker.C:
			w.Kick()
		case age := <-stalled:
			t.Fatalf("Unexpected stall report (age %s) while kicking", age)
		case <-deadline:
			return
		}
	}
}

func TestWatchdogStopSilencesMonitor(t *testing.T) {
	stalled := make(chan time.Duration, 1)
	w := NewWatchdog(20*time.Millisecond, func(age time.Duration) {
		select {
		case stalled <- age:
		default:
		}
	})
	w.Start()
	w.Stop()

	select {
	case age := <-stalled:
		t.Fatalf("Stall reported after Stop (age %s)", age)
	case <-time.After(100 * time.Millisecond):
	}
}
