//go:build !linux
// +build !linux

// File: internal/wakeup/wakeup_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package wakeup

// New constructs the portable channel-backed notifier.
func New() (Notifier, error) {
	return newChannelNotifier(), nil
}
