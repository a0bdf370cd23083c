// File: loop/request.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Generic request lifecycle state machine: Pending -> Finished, transitioned
// only by the native completion trampoline. Requests enter the pending set
// at construction, pinning them independent of caller references, and leave
// it exactly once at completion.

package loop

import (
	"go.uber.org/zap"

	"github.com/momentics/uvbridge/api"
	"github.com/momentics/uvbridge/registry"
)

// completer is implemented by requests completed through the shared
// status-only trampoline.
type completer interface {
	req() *Request
	complete(status api.StatusCode)
}

// Request is the base of all one-shot asynchronous operations.
type Request struct {
	kind  api.RequestKind
	addr  uintptr
	loop  *Loop
	token registry.Token
	owner any

	// handle is the owning handle for handle-bound requests, nil for
	// standalone ones (getaddrinfo, work).
	handle   *Handle
	finished bool
}

func (r *Request) req() *Request { return r }

// Kind returns the native type tag of the request.
func (r *Request) Kind() api.RequestKind { return r.kind }

// EventLoop returns the loop the request runs on.
func (r *Request) EventLoop() *Loop { return r.loop }

// Finished reports whether the completion callback has run.
func (r *Request) Finished() bool { return r.finished }

// attach allocates the native request block, registers the attachment, and
// inserts the request into the pending set. The native issue call follows in
// the concrete constructor; its status must be passed to issueStatus.
func (r *Request) attach(l *Loop, kind api.RequestKind, owner any, h *Handle) error {
	if l.closed {
		r.finished = true
		return api.ErrClosedLoop
	}
	addr := l.native.RequestAlloc(kind)
	token, err := l.attachments.Attach(addr, owner)
	if err != nil {
		l.native.RequestFree(addr)
		r.finished = true
		return err
	}
	r.kind = kind
	r.addr = addr
	r.loop = l
	r.token = token
	r.owner = owner
	r.handle = h
	l.pending.Add(owner)
	return nil
}

// issueStatus finalizes construction after the native issue call. A negative
// status finishes the request immediately: no completion callback will fire
// for an operation that was never accepted.
func (r *Request) issueStatus(code api.StatusCode) error {
	if code >= 0 {
		return nil
	}
	r.finish()
	return api.NewNativeError(code)
}

// Cancel asks the native layer to abort the operation. Best-effort: it may
// race with natural completion, and success only selects ECANCELED as the
// status the single completion callback will deliver.
func (r *Request) Cancel() error {
	if r.finished {
		return api.ErrClosedRequest
	}
	return api.StatusError(r.loop.native.Cancel(r.addr))
}

// finish performs the Pending -> Finished transition. Defensively idempotent:
// a cancel racing a natural completion must degrade to a no-op, never fault.
func (r *Request) finish() {
	if r.finished {
		return
	}
	r.finished = true
	if _, err := r.loop.attachments.Detach(r.addr); err != nil {
		Logger().Warn("detach during request finish",
			zap.Stringer("kind", r.kind), zap.Error(err))
	}
	r.loop.pending.Remove(r.owner)
	r.loop.native.RequestFree(r.addr)
	r.addr = 0
}

// requestTrampoline completes every status-only request kind (connect,
// write, shutdown, work). It dispatches the kind-specific user callback
// inside the callback context, then transitions the request to finished.
func (l *Loop) requestTrampoline(addr uintptr, status api.StatusCode) {
	obj, ok := l.attachments.Lookup(addr)
	if !ok {
		Logger().Warn("completion for unattached request block",
			zap.Uint64("addr", uint64(addr)))
		return
	}
	c := obj.(completer)
	l.guard(func() { c.complete(status) })
	c.req().finish()
}
