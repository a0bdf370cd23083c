// File: loop/stream.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stream base: read machinery plus the write/shutdown/connect request
// wrappers shared by all stream kinds. Reads are delivered in native receipt
// order; an end-of-stream or read error stops further reads on the handle.

package loop

import (
	"io"

	"github.com/momentics/uvbridge/api"
	"github.com/momentics/uvbridge/buffers"
)

// ReadCallback receives stream data. err is io.EOF at end of stream and a
// *api.NativeError for native read failures; data is nil in both cases.
type ReadCallback func(data []byte, err error)

// streamer is implemented by every stream kind through embedding.
type streamer interface {
	handler
	stream() *Stream
}

// Stream is the base of all stream handle kinds.
type Stream struct {
	Handle
	onRead  ReadCallback
	reading bool
}

func (s *Stream) stream() *Stream { return s }

// Reading reports whether reads are currently started.
func (s *Stream) Reading() bool { return s.reading }

// ReadStart begins reading. A non-nil callback replaces the recorded one.
func (s *Stream) ReadStart(cb ReadCallback) error {
	if s.closing {
		return api.ErrClosedHandle
	}
	if cb != nil {
		s.onRead = cb
	}
	code := s.loop.native.ReadStart(s.addr, s.loop.allocTrampoline, s.loop.readTrampoline)
	if code.IsError() {
		return api.NewNativeError(code)
	}
	s.reading = true
	return nil
}

// ReadStop stops reading. Idempotent.
func (s *Stream) ReadStop() error {
	if s.closing {
		return api.ErrClosedHandle
	}
	code := s.loop.native.ReadStop(s.addr)
	if code.IsError() {
		return api.NewNativeError(code)
	}
	s.reading = false
	return nil
}

// WriteRequest carries one scatter/gather write. It holds the marshalled
// descriptors, keeping the caller's buffers reachable until completion.
type WriteRequest struct {
	Request
	bufs    []api.NativeBuf
	onWrite func(*WriteRequest, error)
}

func (r *WriteRequest) complete(status api.StatusCode) {
	r.bufs = nil
	if cb := r.onWrite; cb != nil {
		cb(r, api.StatusError(status))
	}
}

// Write queues data on the stream. The callback fires exactly once with the
// completion status, also after cancellation.
func (s *Stream) Write(data [][]byte, cb func(*WriteRequest, error)) (*WriteRequest, error) {
	if s.closing {
		return nil, api.ErrClosedHandle
	}
	r := &WriteRequest{
		bufs:    buffers.ToNative(data...),
		onWrite: cb,
	}
	if err := r.attach(s.loop, api.RequestWrite, r, &s.Handle); err != nil {
		return nil, err
	}
	code := s.loop.native.Write(r.addr, s.addr, r.bufs, s.loop.requestTrampoline)
	if err := r.issueStatus(code); err != nil {
		return nil, err
	}
	return r, nil
}

// ShutdownRequest closes the outgoing side of a stream after pending writes
// have drained.
type ShutdownRequest struct {
	Request
	onShutdown func(*ShutdownRequest, error)
}

func (r *ShutdownRequest) complete(status api.StatusCode) {
	if cb := r.onShutdown; cb != nil {
		cb(r, api.StatusError(status))
	}
}

// Shutdown issues a shutdown of the write side.
func (s *Stream) Shutdown(cb func(*ShutdownRequest, error)) (*ShutdownRequest, error) {
	if s.closing {
		return nil, api.ErrClosedHandle
	}
	r := &ShutdownRequest{onShutdown: cb}
	if err := r.attach(s.loop, api.RequestShutdown, r, &s.Handle); err != nil {
		return nil, err
	}
	code := s.loop.native.Shutdown(r.addr, s.addr, s.loop.requestTrampoline)
	if err := r.issueStatus(code); err != nil {
		return nil, err
	}
	return r, nil
}

// ConnectRequest establishes a stream connection. Issued through the
// kind-specific connect methods (Pipe.Connect).
type ConnectRequest struct {
	Request
	onConnect func(*ConnectRequest, error)
}

func (r *ConnectRequest) complete(status api.StatusCode) {
	if cb := r.onConnect; cb != nil {
		cb(r, api.StatusError(status))
	}
}

func (l *Loop) allocTrampoline(addr uintptr, suggested uint) api.NativeBuf {
	return l.alloc.Allocate(suggested)
}

func (l *Loop) readTrampoline(addr uintptr, nread int, buf api.NativeBuf) {
	obj, ok := l.attachments.Lookup(addr)
	if !ok {
		l.alloc.Release(buf)
		return
	}
	s := obj.(streamer).stream()
	data, eof, err := buffers.ClassifyRead(nread, buf)
	l.alloc.Release(buf)
	if data == nil && !eof && err == nil {
		// Spurious wakeup: nothing to deliver.
		return
	}
	if eof || err != nil {
		l.native.ReadStop(addr)
		s.reading = false
	}
	if eof {
		err = io.EOF
	}
	if cb := s.onRead; cb != nil {
		l.guard(func() { cb(data, err) })
	}
}
