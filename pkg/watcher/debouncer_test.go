package watcher

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesBurst(t *testing.T) {
	var calls int32
	d := NewDebouncer(30*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(2 * time.Millisecond)
	}
	if !d.Pending() {
		t.Error("Expected a pending call during the burst")
	}

	time.Sleep(120 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected 1 call, got %d", got)
	}
	if d.Fired() != 1 {
		t.Errorf("Expected Fired() == 1, got %d", d.Fired())
	}
	if d.Pending() {
		t.Error("Expected nothing pending after firing")
	}
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	var calls int32
	d := NewDebouncer(20*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })

	d.Trigger()
	time.Sleep(80 * time.Millisecond)
	d.Trigger()
	time.Sleep(80 * time.Millisecond)

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("Expected 2 calls, got %d", got)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	var calls int32
	d := NewDebouncer(20*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })

	d.Trigger()
	d.Stop()
	time.Sleep(60 * time.Millisecond)

	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("Expected no calls after Stop, got %d", got)
	}
}

func TestDebouncer_DefaultDuration(t *testing.T) {
	d := NewDebouncer(0, func() {})
	if d.Duration() != DefaultDebounceDuration {
		t.Errorf("Expected default duration %v, got %v", DefaultDebounceDuration, d.Duration())
	}
}
