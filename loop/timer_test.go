// File: loop/timer_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop_test

import (
	"errors"
	"testing"
	"time"

	"github.com/momentics/uvbridge/api"
	"github.com/momentics/uvbridge/loop"
)

// TestTimer_OneShot checks a zero-repeat timer fires once and deactivates.
func TestTimer_OneShot(t *testing.T) {
	l, _ := newTestLoop(t)
	defer drain(t, l)

	fired := 0
	tm, err := loop.NewTimer(l)
	if err != nil {
		t.Fatalf("NewTimer failed: %v", err)
	}
	if tm.IsActive() {
		t.Fatal("fresh timer reports active")
	}
	if err := tm.Start(time.Millisecond, 0, func(*loop.Timer) { fired++ }); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !tm.IsActive() {
		t.Fatal("started timer not active")
	}
	if _, err := l.Run(api.RunDefault); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if fired != 1 {
		t.Errorf("timer fired %d times, want 1", fired)
	}
	if tm.IsActive() {
		t.Error("one-shot timer still active after expiry")
	}
}

// TestTimer_Repeating checks the repeat interval reschedules until stopped.
func TestTimer_Repeating(t *testing.T) {
	l, _ := newTestLoop(t)
	defer drain(t, l)

	fired := 0
	tm, _ := loop.NewTimer(l)
	tm.Start(0, time.Millisecond, func(tm *loop.Timer) {
		fired++
		if fired == 3 {
			if err := tm.Stop(); err != nil {
				t.Errorf("Stop failed: %v", err)
			}
		}
	})
	if _, err := l.Run(api.RunDefault); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if fired != 3 {
		t.Errorf("timer fired %d times, want 3", fired)
	}
	if tm.IsActive() {
		t.Error("stopped timer still active")
	}
}

// TestTimer_RepeatAccessors checks SetRepeat/Repeat round-trip and Again
// semantics.
func TestTimer_RepeatAccessors(t *testing.T) {
	l, _ := newTestLoop(t)
	defer drain(t, l)

	tm, _ := loop.NewTimer(l)
	if err := tm.SetRepeat(50 * time.Millisecond); err != nil {
		t.Fatalf("SetRepeat failed: %v", err)
	}
	if got, err := tm.Repeat(); err != nil || got != 50*time.Millisecond {
		t.Errorf("Repeat = (%v, %v), want 50ms", got, err)
	}

	// Again on a never-started timer has no callback to reschedule.
	var ne *api.NativeError
	if err := tm.Again(); !errors.As(err, &ne) || ne.Code != api.EINVAL {
		t.Errorf("Again on fresh timer = %v, want NativeError EINVAL", err)
	}
}

// TestTimer_StartWhileActiveReschedules checks restarting an active timer
// replaces its schedule rather than stacking callbacks.
func TestTimer_StartWhileActiveReschedules(t *testing.T) {
	l, _ := newTestLoop(t)
	defer drain(t, l)

	fired := 0
	tm, _ := loop.NewTimer(l)
	tm.Start(time.Hour, 0, func(*loop.Timer) { fired++ })
	tm.Start(time.Millisecond, 0, nil)
	if _, err := l.Run(api.RunDefault); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if fired != 1 {
		t.Errorf("timer fired %d times after reschedule, want 1", fired)
	}
}
