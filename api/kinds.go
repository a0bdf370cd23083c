// File: api/kinds.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Handle and request kind enumerations plus loop run modes. The kinds mirror
// the native library's type tags; behavior binding happens in the loop
// package's init-time descriptor table, never here.

package api

// HandleKind tags the native type of a long-lived handle.
type HandleKind int

const (
	HandleUnknown HandleKind = iota
	HandleAsync
	HandleCheck
	HandleFSEvent
	HandleFSPoll
	HandleIdle
	HandlePipe
	HandlePoll
	HandlePrepare
	HandleProcess
	HandleSignal
	HandleStream
	HandleTCP
	HandleTimer
	HandleTTY
	HandleUDP
)

var handleKindNames = map[HandleKind]string{
	HandleUnknown: "unknown",
	HandleAsync:   "async",
	HandleCheck:   "check",
	HandleFSEvent: "fs-event",
	HandleFSPoll:  "fs-poll",
	HandleIdle:    "idle",
	HandlePipe:    "pipe",
	HandlePoll:    "poll",
	HandlePrepare: "prepare",
	HandleProcess: "process",
	HandleSignal:  "signal",
	HandleStream:  "stream",
	HandleTCP:     "tcp",
	HandleTimer:   "timer",
	HandleTTY:     "tty",
	HandleUDP:     "udp",
}

func (k HandleKind) String() string {
	if name, ok := handleKindNames[k]; ok {
		return name
	}
	return "invalid"
}

// RequestKind tags the native type of a one-shot asynchronous operation.
type RequestKind int

const (
	RequestUnknown RequestKind = iota
	RequestConnect
	RequestWrite
	RequestShutdown
	RequestUDPSend
	RequestFS
	RequestWork
	RequestGetAddrInfo
	RequestGetNameInfo
)

var requestKindNames = map[RequestKind]string{
	RequestUnknown:     "unknown",
	RequestConnect:     "connect",
	RequestWrite:       "write",
	RequestShutdown:    "shutdown",
	RequestUDPSend:     "udp-send",
	RequestFS:          "fs",
	RequestWork:        "work",
	RequestGetAddrInfo: "getaddrinfo",
	RequestGetNameInfo: "getnameinfo",
}

func (k RequestKind) String() string {
	if name, ok := requestKindNames[k]; ok {
		return name
	}
	return "invalid"
}

// RunMode controls the behavior of a single Loop.Run invocation.
type RunMode int

const (
	// RunDefault runs the loop until no active and referenced handles or
	// requests remain.
	RunDefault RunMode = iota
	// RunOnce polls for IO once, blocking until at least one event has been
	// dispatched.
	RunOnce
	// RunNoWait polls for IO once without blocking.
	RunNoWait
)

func (m RunMode) String() string {
	switch m {
	case RunDefault:
		return "default"
	case RunOnce:
		return "once"
	case RunNoWait:
		return "nowait"
	}
	return "invalid"
}
