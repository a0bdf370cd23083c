// File: internal/normalize/normalize.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platform capability probe and socket buffer size normalization.
//
// Linux reports doubled values from the kernel's buffer size queries (the
// kernel doubles the value at set time for bookkeeping overhead and returns
// the doubled figure from getsockopt). The binding presents one
// platform-independent rule: the value observed after a get equals the value
// passed to the preceding set. That requires halving raw get results on
// Linux and passing set values through unchanged everywhere.
//
// All call sites must go through these functions; nothing else in the module
// is allowed to branch on the platform for buffer size semantics.

package normalize

import "runtime"

// IsLinux reports whether the process runs under the Linux buffer size
// semantics.
func IsLinux() bool { return runtime.GOOS == "linux" }

// BufferSizeFromNative converts a raw native get result into the
// platform-independent value, using the explicit platform flag. Split out
// for unit testing both branches on any host.
func BufferSizeFromNative(raw int, linux bool) int {
	if linux {
		return raw / 2
	}
	return raw
}

// BufferSizeToNative converts a platform-independent value into the raw
// value handed to the native set call. The set path is identity on all
// platforms; the doubling is compensated on the get path only.
func BufferSizeToNative(value int, linux bool) int {
	return value
}

// BufferSizeFromNativeAuto applies the host platform rule.
func BufferSizeFromNativeAuto(raw int) int {
	return BufferSizeFromNative(raw, IsLinux())
}

// BufferSizeToNativeAuto applies the host platform rule.
func BufferSizeToNativeAuto(value int) int {
	return BufferSizeToNative(value, IsLinux())
}
