// File: api/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package api defines the shared surface of uvbridge: handle and request
// kind enumerations, the native status code space, the error taxonomy, the
// native buffer descriptor, and the NativeAPI/NativeLoop interfaces that
// describe the underlying event-loop library as a black box.
//
// The native library is never accessed directly by the lifecycle layer; all
// calls flow through NativeLoop and all native events flow back through the
// fixed-signature trampoline types declared here.
package api
