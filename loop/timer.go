// File: loop/timer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop

import (
	"time"

	"github.com/momentics/uvbridge/api"
)

// Timer invokes a callback after a timeout, optionally repeating.
type Timer struct {
	Handle
	onTimeout func(*Timer)
}

// NewTimer constructs an inactive timer on the loop.
func NewTimer(l *Loop) (*Timer, error) {
	t := &Timer{}
	if err := t.attach(l, api.HandleTimer, t); err != nil {
		return nil, err
	}
	if err := t.initStatus(l.native.TimerInit(t.addr)); err != nil {
		return nil, err
	}
	return t, nil
}

// Start schedules the timer. A zero repeat fires once; a non-zero repeat
// restarts the timer with that interval after each expiry. A non-nil
// callback replaces the recorded one.
func (t *Timer) Start(timeout, repeat time.Duration, cb func(*Timer)) error {
	if t.closing {
		return api.ErrClosedHandle
	}
	if cb != nil {
		t.onTimeout = cb
	}
	code := t.loop.native.TimerStart(t.addr, t.loop.timerTrampoline,
		uint64(timeout/time.Millisecond), uint64(repeat/time.Millisecond))
	return api.StatusError(code)
}

// Stop deactivates the timer. State is unchanged on native failure.
func (t *Timer) Stop() error {
	if t.closing {
		return api.ErrClosedHandle
	}
	return api.StatusError(t.loop.native.TimerStop(t.addr))
}

// Again restarts a repeating timer using its repeat interval.
func (t *Timer) Again() error {
	if t.closing {
		return api.ErrClosedHandle
	}
	return api.StatusError(t.loop.native.TimerAgain(t.addr))
}

// Repeat returns the repeat interval.
func (t *Timer) Repeat() (time.Duration, error) {
	if t.closing {
		return 0, api.ErrClosedHandle
	}
	return time.Duration(t.loop.native.TimerGetRepeat(t.addr)) * time.Millisecond, nil
}

// SetRepeat updates the repeat interval used after the next expiry.
func (t *Timer) SetRepeat(repeat time.Duration) error {
	if t.closing {
		return api.ErrClosedHandle
	}
	t.loop.native.TimerSetRepeat(t.addr, uint64(repeat/time.Millisecond))
	return nil
}

func (l *Loop) timerTrampoline(addr uintptr) {
	obj, ok := l.attachments.Lookup(addr)
	if !ok {
		return
	}
	t := obj.(*Timer)
	if cb := t.onTimeout; cb != nil {
		l.guard(func() { cb(t) })
	}
}
