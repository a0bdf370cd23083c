// File: loop/poll.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop

import "github.com/momentics/uvbridge/api"

// Poll watches an externally owned file descriptor for readiness. The loop
// does not take ownership of the descriptor.
type Poll struct {
	Handle
	onEvent func(p *Poll, events int, err error)
	fd      int
}

// NewPoll constructs a poll watcher over fd.
func NewPoll(l *Loop, fd int) (*Poll, error) {
	p := &Poll{fd: fd}
	if err := p.attach(l, api.HandlePoll, p); err != nil {
		return nil, err
	}
	if err := p.initStatus(l.native.PollInit(p.addr, fd)); err != nil {
		return nil, err
	}
	return p, nil
}

// Start begins watching for the given readiness bits (api.PollReadable,
// api.PollWritable).
func (p *Poll) Start(events int, cb func(*Poll, int, error)) error {
	if p.closing {
		return api.ErrClosedHandle
	}
	if cb != nil {
		p.onEvent = cb
	}
	return api.StatusError(p.loop.native.PollStart(p.addr, events, p.loop.pollTrampoline))
}

// Stop ends the watch.
func (p *Poll) Stop() error {
	if p.closing {
		return api.ErrClosedHandle
	}
	return api.StatusError(p.loop.native.PollStop(p.addr))
}

// Fd returns the watched descriptor.
func (p *Poll) Fd() int { return p.fd }

func (l *Loop) pollTrampoline(addr uintptr, status api.StatusCode, events int) {
	obj, ok := l.attachments.Lookup(addr)
	if !ok {
		return
	}
	p := obj.(*Poll)
	if cb := p.onEvent; cb != nil {
		l.guard(func() { cb(p, events, api.StatusError(status)) })
	}
}
