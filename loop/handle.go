// File: loop/handle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Generic handle lifecycle state machine. A handle is either live (native
// block valid, registered in the attachment table) or destroyed (native
// reference nulled, removed from all bookkeeping); there is no other state.
// Destruction happens only inside the native close-completion trampoline,
// never from user-facing calls.

package loop

import (
	"go.uber.org/zap"

	"github.com/momentics/uvbridge/api"
	"github.com/momentics/uvbridge/internal/normalize"
	"github.com/momentics/uvbridge/registry"
)

// handler is implemented by every concrete handle through embedding.
type handler interface {
	base() *Handle
}

// Handle is the base of all handle kinds. Concrete wrappers embed it and
// drive construction through attach and initStatus.
type Handle struct {
	kind  api.HandleKind
	addr  uintptr
	loop  *Loop
	token registry.Token
	owner any

	onClosed func()
	closing  bool
	closed   bool

	// Data carries free-form user state.
	Data any
}

func (h *Handle) base() *Handle { return h }

// Kind returns the native type tag of the handle.
func (h *Handle) Kind() api.HandleKind { return h.kind }

// EventLoop returns the loop the handle runs on.
func (h *Handle) EventLoop() *Loop { return h.loop }

// attach allocates the native block, registers the attachment, and enrolls
// the handle on the loop. The kind-specific native init call follows in the
// concrete constructor; its status must be passed to initStatus.
func (h *Handle) attach(l *Loop, kind api.HandleKind, owner handler) error {
	if l.closed {
		return api.ErrClosedLoop
	}
	addr := l.native.HandleAlloc(kind)
	token, err := l.attachments.Attach(addr, owner)
	if err != nil {
		l.native.HandleFree(addr)
		return err
	}
	h.kind = kind
	h.addr = addr
	h.loop = l
	h.token = token
	h.owner = owner
	l.handles[h] = owner
	return nil
}

// initStatus finalizes construction after the kind-specific native init. On
// a negative status the handle transitions straight to destroyed, releasing
// everything attach registered; it never becomes live half-registered.
func (h *Handle) initStatus(code api.StatusCode) error {
	if code >= 0 {
		return nil
	}
	h.loop.attachments.Detach(h.addr)
	delete(h.loop.handles, h)
	h.loop.native.HandleFree(h.addr)
	h.addr = 0
	h.closing = true
	h.closed = true
	return api.NewNativeError(code)
}

// IsClosing reports whether close has begun (or completed).
func (h *Handle) IsClosing() bool { return h.closing }

// IsClosed reports whether the close completion has run and the handle is
// destroyed.
func (h *Handle) IsClosed() bool { return h.closed }

// IsActive reports whether the handle is doing something that involves IO or
// scheduled callbacks. Destroyed handles are never active.
func (h *Handle) IsActive() bool {
	if h.closed {
		return false
	}
	return h.loop.native.HandleIsActive(h.addr)
}

// IsReferenced reports whether the handle keeps the loop's default run mode
// alive. Unrelated to liveness.
func (h *Handle) IsReferenced() bool {
	if h.closed {
		return false
	}
	return h.loop.native.HandleHasRef(h.addr)
}

// Reference marks the handle as keeping the loop alive. Idempotent.
func (h *Handle) Reference() error {
	if h.closing {
		return api.ErrClosedHandle
	}
	h.loop.native.HandleRef(h.addr)
	return nil
}

// Dereference releases the handle's claim on the loop's default run mode.
// Idempotent.
func (h *Handle) Dereference() error {
	if h.closing {
		return api.ErrClosedHandle
	}
	h.loop.native.HandleUnref(h.addr)
	return nil
}

// Fileno returns the OS descriptor backing the handle. Only descriptor-backed
// kinds support this; others fail with ErrInvalidOperation.
func (h *Handle) Fileno() (int, error) {
	if h.closing {
		return 0, api.ErrClosedHandle
	}
	if !descriptorOf(h.kind).fdBacked {
		return 0, api.ErrInvalidOperation
	}
	fd, code := h.loop.native.HandleFileno(h.addr)
	if code.IsError() {
		return 0, api.NewNativeError(code)
	}
	return fd, nil
}

// SendBufferSize returns the OS send buffer size, normalized to be
// platform-independent. Only socket-buffered kinds support this; others fail
// with ErrInvalidOperation.
func (h *Handle) SendBufferSize() (int, error) {
	if h.closing {
		return 0, api.ErrClosedHandle
	}
	if !descriptorOf(h.kind).sockBuffered {
		return 0, api.ErrInvalidOperation
	}
	raw, code := h.loop.native.SendBufferSize(h.addr, 0)
	if code.IsError() {
		return 0, api.NewNativeError(code)
	}
	return normalize.BufferSizeFromNativeAuto(raw), nil
}

// SetSendBufferSize sets the OS send buffer size. The value later observed
// through SendBufferSize equals the value set, on every platform.
func (h *Handle) SetSendBufferSize(size int) error {
	if h.closing {
		return api.ErrClosedHandle
	}
	if !descriptorOf(h.kind).sockBuffered {
		return api.ErrInvalidOperation
	}
	_, code := h.loop.native.SendBufferSize(h.addr, normalize.BufferSizeToNativeAuto(size))
	return api.StatusError(code)
}

// ReceiveBufferSize returns the OS receive buffer size, normalized like
// SendBufferSize.
func (h *Handle) ReceiveBufferSize() (int, error) {
	if h.closing {
		return 0, api.ErrClosedHandle
	}
	if !descriptorOf(h.kind).sockBuffered {
		return 0, api.ErrInvalidOperation
	}
	raw, code := h.loop.native.RecvBufferSize(h.addr, 0)
	if code.IsError() {
		return 0, api.NewNativeError(code)
	}
	return normalize.BufferSizeFromNativeAuto(raw), nil
}

// SetReceiveBufferSize sets the OS receive buffer size.
func (h *Handle) SetReceiveBufferSize(size int) error {
	if h.closing {
		return api.ErrClosedHandle
	}
	if !descriptorOf(h.kind).sockBuffered {
		return api.ErrInvalidOperation
	}
	_, code := h.loop.native.RecvBufferSize(h.addr, normalize.BufferSizeToNativeAuto(size))
	return api.StatusError(code)
}

// Close begins closing the handle. Idempotent: further calls while closing
// or after destruction are silent no-ops, except that a non-nil onClosed
// replaces the recorded completion callback until the completion has run
// (last writer wins). The handle is destroyed only when the native close
// completion fires.
func (h *Handle) Close(onClosed func()) {
	if onClosed != nil && !h.closed {
		h.onClosed = onClosed
	}
	if h.closing {
		return
	}
	h.closing = true
	// The close is now an in-flight native operation: pin the handle until
	// the completion trampoline runs.
	h.loop.pending.Add(h.owner)
	h.loop.native.HandleClose(h.addr, h.loop.closeTrampoline)
}

// destroy finalizes the handle: native reference nulled, removed from the
// attachment table, the pending set, and the loop's handle set.
func (h *Handle) destroy() {
	if h.closed {
		return
	}
	h.closing = true
	h.closed = true
	if _, err := h.loop.attachments.Detach(h.addr); err != nil {
		Logger().Warn("detach during handle destroy",
			zap.Stringer("kind", h.kind), zap.Error(err))
	}
	h.loop.pending.Remove(h.owner)
	delete(h.loop.handles, h)
	h.loop.native.HandleFree(h.addr)
	h.addr = 0
}

// closeTrampoline is registered with every native close call. It runs the
// recorded completion callback inside the callback context, then performs
// the Closing -> Destroyed transition.
func (l *Loop) closeTrampoline(addr uintptr) {
	obj, ok := l.attachments.Lookup(addr)
	if !ok {
		Logger().Warn("close completion for unattached block",
			zap.Uint64("addr", uint64(addr)))
		return
	}
	h := obj.(handler).base()
	if cb := h.onClosed; cb != nil {
		l.guard(cb)
	}
	h.destroy()
}
