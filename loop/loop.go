// File: loop/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Event loop driver. Owns the native loop object, the attachment and pending
// registries scoped to it, the callback-context guard, and the deferred-call
// machinery built on the internal wake async.

package loop

import (
	"runtime/debug"
	"sync"

	"github.com/eapache/queue"
	"go.uber.org/zap"

	"github.com/momentics/uvbridge/api"
	"github.com/momentics/uvbridge/registry"
)

// Loop drives one native event loop.
type Loop struct {
	lib    api.NativeAPI
	native api.NativeLoop

	attachments *registry.Attachments
	pending     *registry.Pending
	handles     map[*Handle]any

	alloc  Allocator
	closed bool

	// Captured callback errors, drained via CallbackErrors.
	cbErrs *queue.Queue

	// Deferred calls queued from arbitrary goroutines; the only state in
	// this struct touched outside the loop goroutine.
	deferredMu sync.Mutex
	deferred   *queue.Queue
	wake       *Async
}

var (
	currentMu   sync.Mutex
	currentLoop *Loop
)

// New constructs a loop over the given native library. It verifies the
// library version, allocates the native loop object, and installs the
// internal wake handle used by CallLater. The first loop constructed in the
// process becomes the current loop.
func New(lib api.NativeAPI, opts ...Option) (*Loop, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := checkVersion(lib.Version()); err != nil {
		return nil, err
	}
	native, err := lib.NewLoop()
	if err != nil {
		return nil, err
	}
	l := &Loop{
		lib:         lib,
		native:      native,
		attachments: registry.NewAttachments(),
		pending:     registry.NewPending(),
		handles:     make(map[*Handle]any),
		cbErrs:      queue.New(),
		deferred:    queue.New(),
	}
	l.alloc = cfg.allocator
	if l.alloc == nil {
		l.alloc = NewSingleBufferAllocator(cfg.readBufferSize)
	}

	wake, err := NewAsync(l, func(*Async) { l.drainDeferred() })
	if err != nil {
		native.Close()
		return nil, err
	}
	l.wake = wake
	// The wake handle is loop plumbing: it must not keep the loop alive and
	// is not part of the user-visible handle set.
	native.HandleUnref(wake.addr)
	delete(l.handles, &wake.Handle)

	currentMu.Lock()
	if currentLoop == nil {
		currentLoop = l
	}
	currentMu.Unlock()
	return l, nil
}

// Current returns the loop most recently made current by New or Run. Fails
// with ErrNoCurrentLoop when no loop exists; a native backend is required to
// construct one, so none is conjured implicitly.
func Current() (*Loop, error) {
	currentMu.Lock()
	defer currentMu.Unlock()
	if currentLoop == nil {
		return nil, api.ErrNoCurrentLoop
	}
	return currentLoop, nil
}

func (l *Loop) makeCurrent() {
	currentMu.Lock()
	currentLoop = l
	currentMu.Unlock()
}

// Run drives the native polling step in the given mode, dispatching ready
// callbacks on the calling goroutine. Returns true if active handles or
// requests remain.
func (l *Loop) Run(mode api.RunMode) (bool, error) {
	if l.closed {
		return false, api.ErrClosedLoop
	}
	l.makeCurrent()
	l.retainWakeForDeferred()
	more, code := l.native.Run(mode)
	if err := api.StatusError(code); err != nil {
		return more, err
	}
	return more, nil
}

// Stop makes the current or next Run return as soon as possible. No-op on a
// closed loop.
func (l *Loop) Stop() {
	if l.closed {
		return
	}
	l.native.Stop()
}

// Close releases the native loop. It fails with ErrStillActive while the
// loop is not quiescent: any live handle (active or not), any handle whose
// close has not completed, and any unfinished request keep the loop open.
// A failed Close leaves the loop fully usable.
func (l *Loop) Close() error {
	if l.closed {
		return nil
	}
	// Quiescence must be established before touching the internal wake
	// handle, so that a refused Close leaves no partial state behind.
	if l.native.Alive() || len(l.handles) > 0 || l.pending.Len() > 0 {
		return api.ErrStillActive
	}
	// Only the wake handle remains: tear it down and flush its close
	// completion before asking the native side to release the loop.
	if l.wake != nil && !l.wake.IsClosing() {
		l.wake.Close(nil)
		l.native.Run(api.RunNoWait)
	}
	if code := l.native.Close(); code.IsError() {
		if code == api.EBUSY {
			return api.ErrStillActive
		}
		return api.NewNativeError(code)
	}
	l.closed = true
	currentMu.Lock()
	if currentLoop == l {
		currentLoop = nil
	}
	currentMu.Unlock()
	return nil
}

// Closed reports whether Close has completed.
func (l *Loop) Closed() bool { return l.closed }

// Alive reports whether active and referenced handles or requests remain.
func (l *Loop) Alive() bool {
	if l.closed {
		return false
	}
	return l.native.Alive()
}

// Now returns the loop's cached monotonic timestamp in milliseconds.
func (l *Loop) Now() (uint64, error) {
	if l.closed {
		return 0, api.ErrClosedLoop
	}
	return l.native.Now(), nil
}

// Handles returns the live user-visible handles registered on the loop.
func (l *Loop) Handles() []any {
	out := make([]any, 0, len(l.handles))
	for _, owner := range l.handles {
		out = append(out, owner)
	}
	return out
}

// CloseAllHandles begins closing every live handle. The callback, if given,
// replaces each handle's close completion callback.
func (l *Loop) CloseAllHandles(onClosed func()) {
	for h := range l.handles {
		h.Close(onClosed)
	}
}

// CallLater schedules fn to run on the loop goroutine. Safe to call from any
// goroutine: it only touches the deferred queue and the thread-safe async
// send. While the loop is running, the wake dispatches the call promptly; a
// call queued while the loop is not running keeps the next Run alive until
// it has executed.
func (l *Loop) CallLater(fn func()) error {
	if l.closed {
		return api.ErrClosedLoop
	}
	l.deferredMu.Lock()
	l.deferred.Add(fn)
	l.deferredMu.Unlock()
	return l.wake.Send()
}

// retainWakeForDeferred references the wake handle when deferred calls are
// queued. Ref state is loop-goroutine-only, so the toggle happens at Run
// entry and in the wake's own dispatch, never in CallLater.
func (l *Loop) retainWakeForDeferred() {
	l.deferredMu.Lock()
	queued := l.deferred.Length() > 0
	l.deferredMu.Unlock()
	if queued {
		l.native.HandleRef(l.wake.addr)
	}
}

func (l *Loop) drainDeferred() {
	for {
		l.deferredMu.Lock()
		if l.deferred.Length() == 0 {
			l.deferredMu.Unlock()
			l.native.HandleUnref(l.wake.addr)
			return
		}
		fn := l.deferred.Remove().(func())
		l.deferredMu.Unlock()
		l.guard(fn)
	}
}

// CallbackErrors drains and returns the errors captured by the
// callback-context guard since the last drain.
func (l *Loop) CallbackErrors() []error {
	if l.cbErrs.Length() == 0 {
		return nil
	}
	out := make([]error, 0, l.cbErrs.Length())
	for l.cbErrs.Length() > 0 {
		out = append(out, l.cbErrs.Remove().(error))
	}
	return out
}

// guard is the callback context: every user callback invoked from native
// dispatch runs inside it. A panic is captured, queued on the loop's error
// surface, and stops the loop; it never unwinds into the native call frame.
func (l *Loop) guard(fn func()) {
	defer func() {
		if v := recover(); v != nil {
			cbErr := &api.CallbackError{Value: v, Stack: debug.Stack()}
			l.cbErrs.Add(cbErr)
			Logger().Error("panic in user callback",
				zap.Any("value", v))
			l.Stop()
		}
	}()
	fn()
}
