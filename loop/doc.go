// File: loop/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package loop implements the managed lifecycle layer over a native
// event-loop library: the Loop driver, the Handle and Request state
// machines, the callback-context guard, and the concrete handle and request
// wrappers (timers, asyncs, signals, fs watchers, poll watchers, pipe
// streams, getaddrinfo and thread-pool work requests).
//
// Threading model: one loop per goroutine. Every method of every type in
// this package must be called from the goroutine driving Loop.Run, with one
// documented exception: Async.Send (and Loop.CallLater, which is built on
// it) is safe from any goroutine. There is no internal locking on handle or
// request state.
package loop
