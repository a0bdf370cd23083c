// File: fake/inject.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Test-side injection surface. These helpers are thread-safe: they queue
// native events and wake a blocked Run, mimicking the kernel delivering IO.

package fake

import "github.com/momentics/uvbridge/api"

// Feed queues data to be delivered to whichever stream reads from fd. Each
// call becomes one read callback (split further only if the destination
// buffer is smaller than the payload).
func (fl *Loop) Feed(fd int, data []byte) {
	chunk := make([]byte, len(data))
	copy(chunk, data)
	fl.mu.Lock()
	fl.feeds[fd] = append(fl.feeds[fd], feedItem{data: chunk})
	fl.mu.Unlock()
	fl.notifier.Notify()
}

// FeedEOF queues an end-of-stream marker for fd.
func (fl *Loop) FeedEOF(fd int) {
	fl.mu.Lock()
	fl.feeds[fd] = append(fl.feeds[fd], feedItem{eof: true})
	fl.mu.Unlock()
	fl.notifier.Notify()
}

// FeedError queues a read failure with the given status for fd.
func (fl *Loop) FeedError(fd int, code api.StatusCode) {
	fl.mu.Lock()
	fl.feeds[fd] = append(fl.feeds[fd], feedItem{code: code})
	fl.mu.Unlock()
	fl.notifier.Notify()
}

// Written returns the chunks written to fd so far, in completion order. The
// log survives handle close.
func (fl *Loop) Written(fd int) [][]byte {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	out := make([][]byte, len(fl.written[fd]))
	copy(out, fl.written[fd])
	return out
}

// RaiseSignal delivers signum to every started signal watcher observing it.
func (fl *Loop) RaiseSignal(signum int) {
	fl.mu.Lock()
	for addr, b := range fl.handles {
		if b.kind != api.HandleSignal || !b.active || b.closing || b.signum != signum {
			continue
		}
		addr, cb := addr, b.signalCb
		fl.ready = append(fl.ready, func() { cb(addr, signum) })
	}
	fl.mu.Unlock()
	fl.notifier.Notify()
}

// EmitFSEvent delivers a filesystem change to every started watcher of path.
func (fl *Loop) EmitFSEvent(path, filename string, events int) {
	fl.mu.Lock()
	for addr, b := range fl.handles {
		if b.kind != api.HandleFSEvent || !b.active || b.closing || b.fsPath != path {
			continue
		}
		addr, cb := addr, b.fsCb
		fl.ready = append(fl.ready, func() { cb(addr, filename, events, api.OK) })
	}
	fl.mu.Unlock()
	fl.notifier.Notify()
}

// SetPollReady marks readiness bits on fd. Started poll watchers interested
// in any of the bits fire once; the delivered bits are then cleared.
func (fl *Loop) SetPollReady(fd int, events int) {
	fl.mu.Lock()
	fl.pollReady[fd] |= events
	fl.mu.Unlock()
	fl.notifier.Notify()
}

// HandleCount reports the number of live native handle blocks, freed blocks
// excluded. Useful for leak assertions.
func (fl *Loop) HandleCount() int {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return len(fl.handles)
}

// RequestCount reports the number of live native request blocks.
func (fl *Loop) RequestCount() int {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return len(fl.requests)
}
