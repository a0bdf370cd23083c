// File: internal/wakeup/wakeup.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cross-thread loop wakeup primitive. This is the one thread-safe building
// block in the module: Notify may be called from any goroutine or signal
// context, while Wait belongs to the loop goroutine. Platform constructors
// live in the build-tagged files.

package wakeup

import "time"

// Notifier wakes a blocked loop iteration from another execution context.
type Notifier interface {
	// Notify marks the notifier signaled. Safe from any goroutine. Multiple
	// notifications before a Wait coalesce into one wakeup.
	Notify()

	// Wait blocks until the notifier is signaled or the timeout elapses,
	// draining the signaled state. d < 0 blocks indefinitely. Returns true
	// if a notification was consumed.
	Wait(d time.Duration) bool

	Close() error
}

// channelNotifier is the portable fallback.
type channelNotifier struct {
	ch   chan struct{}
	done chan struct{}
}

func newChannelNotifier() *channelNotifier {
	return &channelNotifier{
		ch:   make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (n *channelNotifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

func (n *channelNotifier) Wait(d time.Duration) bool {
	if d < 0 {
		select {
		case <-n.ch:
			return true
		case <-n.done:
			return false
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-n.ch:
		return true
	case <-n.done:
		return false
	case <-timer.C:
		return false
	}
}

func (n *channelNotifier) Close() error {
	close(n.done)
	return nil
}
