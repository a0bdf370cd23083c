// File: loop/async.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop

import "github.com/momentics/uvbridge/api"

// Async wakes the loop from another goroutine or signal context and runs its
// callback on the loop goroutine. Send is the single thread-safe operation
// in the module; multiple sends before the callback runs coalesce into one
// invocation. Async handles are always active.
type Async struct {
	Handle
	callback func(*Async)
}

// NewAsync constructs an async handle with its callback.
func NewAsync(l *Loop, cb func(*Async)) (*Async, error) {
	a := &Async{callback: cb}
	if err := a.attach(l, api.HandleAsync, a); err != nil {
		return nil, err
	}
	if err := a.initStatus(l.native.AsyncInit(a.addr, l.asyncTrampoline)); err != nil {
		return nil, err
	}
	return a, nil
}

// Send schedules the callback to run on the loop goroutine. Safe from any
// goroutine. The closing check is advisory under concurrent close; closing
// an async that other goroutines still send to is a caller bug.
func (a *Async) Send() error {
	if a.closing {
		return api.ErrClosedHandle
	}
	return api.StatusError(a.loop.native.AsyncSend(a.addr))
}

func (l *Loop) asyncTrampoline(addr uintptr) {
	obj, ok := l.attachments.Lookup(addr)
	if !ok {
		return
	}
	a := obj.(*Async)
	if cb := a.callback; cb != nil {
		l.guard(func() { cb(a) })
	}
}
