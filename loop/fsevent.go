// File: loop/fsevent.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop

import "github.com/momentics/uvbridge/api"

// FSEvent watches a filesystem path for renames and changes.
type FSEvent struct {
	Handle
	onEvent func(f *FSEvent, filename string, events int, err error)
	path    string
}

// NewFSEvent constructs an inactive filesystem watcher.
func NewFSEvent(l *Loop) (*FSEvent, error) {
	f := &FSEvent{}
	if err := f.attach(l, api.HandleFSEvent, f); err != nil {
		return nil, err
	}
	if err := f.initStatus(l.native.FSEventInit(f.addr)); err != nil {
		return nil, err
	}
	return f, nil
}

// Start begins watching path. Events is a bitmask of api.FSEventRename and
// api.FSEventChange delivered to the callback.
func (f *FSEvent) Start(path string, flags int, cb func(*FSEvent, string, int, error)) error {
	if f.closing {
		return api.ErrClosedHandle
	}
	if cb != nil {
		f.onEvent = cb
	}
	code := f.loop.native.FSEventStart(f.addr, f.loop.fsEventTrampoline, path, flags)
	if code.IsError() {
		return api.NewNativeError(code)
	}
	f.path = path
	return nil
}

// Stop ends the watch.
func (f *FSEvent) Stop() error {
	if f.closing {
		return api.ErrClosedHandle
	}
	return api.StatusError(f.loop.native.FSEventStop(f.addr))
}

// Path returns the watched path.
func (f *FSEvent) Path() string { return f.path }

func (l *Loop) fsEventTrampoline(addr uintptr, filename string, events int, status api.StatusCode) {
	obj, ok := l.attachments.Lookup(addr)
	if !ok {
		return
	}
	f := obj.(*FSEvent)
	if cb := f.onEvent; cb != nil {
		l.guard(func() { cb(f, filename, events, api.StatusError(status)) })
	}
}
