// File: loop/pipe.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop

import "github.com/momentics/uvbridge/api"

// Pipe is a local IPC stream (Unix domain socket or named pipe).
type Pipe struct {
	Stream
	ipc bool
}

// NewPipe constructs a pipe stream. ipc enables handle passing over the
// pipe where the native library supports it.
func NewPipe(l *Loop, ipc bool) (*Pipe, error) {
	p := &Pipe{ipc: ipc}
	if err := p.attach(l, api.HandlePipe, p); err != nil {
		return nil, err
	}
	if err := p.initStatus(l.native.PipeInit(p.addr, ipc)); err != nil {
		return nil, err
	}
	return p, nil
}

// Open binds the pipe to an existing descriptor. The native library assumes
// control of the descriptor afterwards.
func (p *Pipe) Open(fd int) error {
	if p.closing {
		return api.ErrClosedHandle
	}
	return api.StatusError(p.loop.native.PipeOpen(p.addr, fd))
}

// Connect establishes a connection to a named endpoint. The returned request
// completes exactly once.
func (p *Pipe) Connect(name string, cb func(*ConnectRequest, error)) (*ConnectRequest, error) {
	if p.closing {
		return nil, api.ErrClosedHandle
	}
	r := &ConnectRequest{onConnect: cb}
	if err := r.attach(p.loop, api.RequestConnect, r, &p.Handle); err != nil {
		return nil, err
	}
	code := p.loop.native.PipeConnect(r.addr, p.addr, name, p.loop.requestTrampoline)
	if err := r.issueStatus(code); err != nil {
		return nil, err
	}
	return r, nil
}

// IPC reports whether the pipe was opened in handle-passing mode.
func (p *Pipe) IPC() bool { return p.ipc }
