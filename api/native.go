// File: api/native.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Black-box interface to the native event-loop library. The lifecycle layer
// identifies native memory blocks purely by address (uintptr); it never
// stores managed pointers inside native memory. Ownership mapping lives in
// the attachment registry on the managed side.
//
// Trampolines are fixed-signature callbacks registered per operation kind.
// The native side invokes them with the address of the originating block;
// the managed side resolves the owner through the attachment registry.

package api

// CloseTrampoline is invoked exactly once, asynchronously, after a handle
// close has completed, even if the handle was never started.
type CloseTrampoline func(addr uintptr)

// EventTrampoline is the payload-free handle callback (timer fired, async
// signaled).
type EventTrampoline func(addr uintptr)

// SignalTrampoline delivers an observed signal number.
type SignalTrampoline func(addr uintptr, signum int)

// PollTrampoline delivers fd readiness events or a negative status.
type PollTrampoline func(addr uintptr, status StatusCode, events int)

// FSEventTrampoline delivers a filesystem change notification.
type FSEventTrampoline func(addr uintptr, filename string, events int, status StatusCode)

// AllocTrampoline is invoked before a read to obtain a destination buffer.
// Returning an empty descriptor makes the read fail with ENOBUFS.
type AllocTrampoline func(addr uintptr, suggested uint) NativeBuf

// ReadTrampoline delivers read results: nread > 0 is a byte count, nread == 0
// with a nil buffer base is end-of-stream, nread < 0 is a status code.
type ReadTrampoline func(addr uintptr, nread int, buf NativeBuf)

// RequestTrampoline completes a one-shot request with a status code. It is
// invoked exactly once per request, including after cancellation (with
// ECANCELED).
type RequestTrampoline func(addr uintptr, status StatusCode)

// AddrInfoTrampoline completes a getaddrinfo request.
type AddrInfoTrampoline func(addr uintptr, status StatusCode, infos []AddrInfo)

// NativeAPI is the entry point of the native library.
type NativeAPI interface {
	// Version reports the loaded library version. The binding verifies it
	// against its compiled-against version at loop construction and fails
	// fast on mismatch.
	Version() Version

	// NewLoop allocates and initializes a native loop object.
	NewLoop() (NativeLoop, error)
}

// NativeLoop is one native event loop object together with the call surface
// the lifecycle layer needs. All methods except AsyncSend must be called from
// the goroutine driving Run; AsyncSend is the single documented thread-safe
// exception.
type NativeLoop interface {
	// Run drives the native polling step in the given mode. It returns true
	// if active handles or requests remain, so the loop should run again.
	Run(mode RunMode) (bool, StatusCode)
	Stop()
	Alive() bool
	Now() uint64
	// Close releases the loop object. It fails with EBUSY while handles
	// remain open.
	Close() StatusCode

	// Generic handle block management.
	HandleAlloc(kind HandleKind) uintptr
	HandleFree(addr uintptr)
	HandleClose(addr uintptr, cb CloseTrampoline)
	HandleIsActive(addr uintptr) bool
	HandleHasRef(addr uintptr) bool
	HandleRef(addr uintptr)
	HandleUnref(addr uintptr)
	HandleFileno(addr uintptr) (int, StatusCode)
	// SendBufferSize and RecvBufferSize get (value == 0) or set (value != 0)
	// the OS socket buffer size, with the platform's raw semantics.
	SendBufferSize(addr uintptr, value int) (int, StatusCode)
	RecvBufferSize(addr uintptr, value int) (int, StatusCode)

	// Kind-specific init/start/stop calls.
	TimerInit(addr uintptr) StatusCode
	TimerStart(addr uintptr, cb EventTrampoline, timeout, repeat uint64) StatusCode
	TimerStop(addr uintptr) StatusCode
	TimerAgain(addr uintptr) StatusCode
	TimerGetRepeat(addr uintptr) uint64
	TimerSetRepeat(addr uintptr, repeat uint64)

	AsyncInit(addr uintptr, cb EventTrampoline) StatusCode
	// AsyncSend is safe to call from any goroutine or signal context.
	AsyncSend(addr uintptr) StatusCode

	SignalInit(addr uintptr) StatusCode
	SignalStart(addr uintptr, cb SignalTrampoline, signum int) StatusCode
	SignalStop(addr uintptr) StatusCode

	FSEventInit(addr uintptr) StatusCode
	FSEventStart(addr uintptr, cb FSEventTrampoline, path string, flags int) StatusCode
	FSEventStop(addr uintptr) StatusCode

	PollInit(addr uintptr, fd int) StatusCode
	PollStart(addr uintptr, events int, cb PollTrampoline) StatusCode
	PollStop(addr uintptr) StatusCode

	PipeInit(addr uintptr, ipc bool) StatusCode
	PipeOpen(addr uintptr, fd int) StatusCode
	PipeConnect(req uintptr, addr uintptr, name string, cb RequestTrampoline) StatusCode

	// Stream primitives shared by all stream kinds.
	ReadStart(addr uintptr, alloc AllocTrampoline, read ReadTrampoline) StatusCode
	ReadStop(addr uintptr) StatusCode
	Write(req uintptr, addr uintptr, bufs []NativeBuf, cb RequestTrampoline) StatusCode
	Shutdown(req uintptr, addr uintptr, cb RequestTrampoline) StatusCode

	// Request block management.
	RequestAlloc(kind RequestKind) uintptr
	RequestFree(addr uintptr)
	// Cancel asks the native layer to abort a pending request. Success does
	// not skip the completion trampoline; it only selects ECANCELED as the
	// delivered status.
	Cancel(addr uintptr) StatusCode

	GetAddrInfo(req uintptr, cb AddrInfoTrampoline, node, service string) StatusCode
	// QueueWork schedules work on the native thread pool; after runs on the
	// loop with the outcome status.
	QueueWork(req uintptr, work func(), after RequestTrampoline) StatusCode
}

// PollEvent bits for Poll handles.
const (
	PollReadable = 1
	PollWritable = 2
)

// FSEvent bits for FSEvent handles.
const (
	FSEventRename = 1
	FSEventChange = 2
)
