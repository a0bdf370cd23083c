//go:build linux
// +build linux

// File: internal/wakeup/wakeup_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// eventfd(2)-backed notifier. The counter write is async-signal-safe, which
// the portable channel fallback cannot offer.

package wakeup

import (
	"encoding/binary"
	"time"

	"golang.org/x/sys/unix"
)

type eventfdNotifier struct {
	fd int
}

// New constructs the platform notifier.
func New() (Notifier, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return newChannelNotifier(), nil
	}
	return &eventfdNotifier{fd: fd}, nil
}

func (n *eventfdNotifier) Notify() {
	var one [8]byte
	binary.LittleEndian.PutUint64(one[:], 1)
	for {
		_, err := unix.Write(n.fd, one[:])
		if err != unix.EINTR {
			// EAGAIN means the counter is saturated; the wakeup is
			// already observable.
			return
		}
	}
}

func (n *eventfdNotifier) Wait(d time.Duration) bool {
	timeout := -1
	if d >= 0 {
		timeout = int(d / time.Millisecond)
		if d > 0 && timeout == 0 {
			timeout = 1
		}
	}
	fds := []unix.PollFd{{Fd: int32(n.fd), Events: unix.POLLIN}}
	for {
		ready, err := unix.Poll(fds, timeout)
		if err == unix.EINTR {
			continue
		}
		if err != nil || ready == 0 {
			return false
		}
		break
	}
	var buf [8]byte
	for {
		_, err := unix.Read(n.fd, buf[:])
		if err != unix.EINTR {
			break
		}
	}
	return true
}

func (n *eventfdNotifier) Close() error {
	return unix.Close(n.fd)
}
