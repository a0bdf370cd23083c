// File: loop/signal.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop

import "github.com/momentics/uvbridge/api"

// Signal watches one OS signal number while started.
type Signal struct {
	Handle
	onSignal func(*Signal, int)
	signum   int
}

// NewSignal constructs an inactive signal watcher.
func NewSignal(l *Loop) (*Signal, error) {
	s := &Signal{}
	if err := s.attach(l, api.HandleSignal, s); err != nil {
		return nil, err
	}
	if err := s.initStatus(l.native.SignalInit(s.addr)); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins watching signum. A non-nil callback replaces the recorded one.
func (s *Signal) Start(signum int, cb func(*Signal, int)) error {
	if s.closing {
		return api.ErrClosedHandle
	}
	if cb != nil {
		s.onSignal = cb
	}
	code := s.loop.native.SignalStart(s.addr, s.loop.signalTrampoline, signum)
	if code.IsError() {
		return api.NewNativeError(code)
	}
	s.signum = signum
	return nil
}

// Stop ends the watch. State is unchanged on native failure.
func (s *Signal) Stop() error {
	if s.closing {
		return api.ErrClosedHandle
	}
	return api.StatusError(s.loop.native.SignalStop(s.addr))
}

// Signum returns the watched signal number.
func (s *Signal) Signum() int { return s.signum }

func (l *Loop) signalTrampoline(addr uintptr, signum int) {
	obj, ok := l.attachments.Lookup(addr)
	if !ok {
		return
	}
	s := obj.(*Signal)
	if cb := s.onSignal; cb != nil {
		l.guard(func() { cb(s, signum) })
	}
}
