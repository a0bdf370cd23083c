// File: fake/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// In-memory native loop. Handle and request blocks live in address-keyed
// maps; Run collects due work under the mutex and dispatches trampolines
// outside it, so callbacks may reenter the loop freely. AsyncSend and the
// injection helpers are the only entry points safe off the loop goroutine.

package fake

import (
	"sync"
	"time"

	"github.com/momentics/uvbridge/api"
	"github.com/momentics/uvbridge/internal/normalize"
	"github.com/momentics/uvbridge/internal/wakeup"
)

const suggestedReadSize = 1 << 16

type handleBlock struct {
	kind       api.HandleKind
	active     bool
	referenced bool
	closing    bool
	closeDone  bool
	closeCb    api.CloseTrampoline

	// timer
	timerCb api.EventTrampoline
	due     uint64
	repeat  uint64

	// async
	asyncCb      api.EventTrampoline
	asyncPending bool

	// signal
	signalCb api.SignalTrampoline
	signum   int

	// fs event
	fsCb   api.FSEventTrampoline
	fsPath string

	// poll
	pollCb     api.PollTrampoline
	pollEvents int

	// stream / fd-backed state
	fd      int
	hasFd   bool
	ipc     bool
	allocCb api.AllocTrampoline
	readCb  api.ReadTrampoline
	reading bool

	sendBuf int
	recvBuf int
}

type requestBlock struct {
	kind       api.RequestKind
	canceled   bool
	dispatched bool
}

type feedItem struct {
	data []byte
	eof  bool
	code api.StatusCode
}

// Loop implements api.NativeLoop entirely in memory.
type Loop struct {
	lib      *Lib
	notifier wakeup.Notifier
	start    time.Time

	mu        sync.Mutex
	closed    bool
	stopped   bool
	nextAddr  uintptr
	handles   map[uintptr]*handleBlock
	requests  map[uintptr]*requestBlock
	ready     []func()
	feeds     map[int][]feedItem
	written   map[int][][]byte
	pollReady map[int]int
}

func newLoop(lib *Lib) (*Loop, error) {
	notifier, err := wakeup.New()
	if err != nil {
		return nil, err
	}
	return &Loop{
		lib:       lib,
		notifier:  notifier,
		start:     time.Now(),
		nextAddr:  0x1000,
		handles:   make(map[uintptr]*handleBlock),
		requests:  make(map[uintptr]*requestBlock),
		feeds:     make(map[int][]feedItem),
		written:   make(map[int][][]byte),
		pollReady: make(map[int]int),
	}, nil
}

func (fl *Loop) nowLocked() uint64 {
	return uint64(time.Since(fl.start) / time.Millisecond)
}

// Now implements api.NativeLoop.
func (fl *Loop) Now() uint64 {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.nowLocked()
}

// Stop implements api.NativeLoop.
func (fl *Loop) Stop() {
	fl.mu.Lock()
	fl.stopped = true
	fl.mu.Unlock()
	fl.notifier.Notify()
}

// Alive implements api.NativeLoop.
func (fl *Loop) Alive() bool {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.aliveLocked()
}

func (fl *Loop) aliveLocked() bool {
	if len(fl.ready) > 0 {
		return true
	}
	for _, b := range fl.handles {
		if b.closing {
			if !b.closeDone {
				return true
			}
			continue
		}
		if b.active && b.referenced {
			return true
		}
	}
	return false
}

// workPendingLocked reports whether another dispatch pass would make
// progress right now, without blocking.
func (fl *Loop) workPendingLocked() bool {
	if len(fl.ready) > 0 {
		return true
	}
	now := fl.nowLocked()
	for _, b := range fl.handles {
		if b.closing {
			if !b.closeDone {
				return true
			}
			continue
		}
		if b.asyncPending {
			return true
		}
		if b.kind == api.HandleTimer && b.active && b.due <= now {
			return true
		}
		if b.reading && b.hasFd && len(fl.feeds[b.fd]) > 0 {
			return true
		}
		if b.kind == api.HandlePoll && b.active && fl.pollReady[b.fd]&b.pollEvents != 0 {
			return true
		}
	}
	return false
}

func (fl *Loop) nextTimerLocked() (time.Duration, bool) {
	now := fl.nowLocked()
	var best uint64
	found := false
	for _, b := range fl.handles {
		if b.kind != api.HandleTimer || !b.active || b.closing {
			continue
		}
		wait := uint64(0)
		if b.due > now {
			wait = b.due - now
		}
		if !found || wait < best {
			best = wait
			found = true
		}
	}
	return time.Duration(best) * time.Millisecond, found
}

// Run implements api.NativeLoop.
func (fl *Loop) Run(mode api.RunMode) (bool, api.StatusCode) {
	fl.mu.Lock()
	if fl.closed {
		fl.mu.Unlock()
		return false, api.EINVAL
	}
	fl.stopped = false
	fl.mu.Unlock()

	dispatched := 0
	for {
		dispatched += fl.step()

		fl.mu.Lock()
		stopped := fl.stopped
		alive := fl.aliveLocked()
		pending := fl.workPendingLocked()
		wait, hasTimer := fl.nextTimerLocked()
		fl.mu.Unlock()

		if mode == api.RunNoWait || stopped {
			return alive, api.OK
		}
		if mode == api.RunOnce && dispatched > 0 {
			return alive, api.OK
		}
		if !alive && !pending {
			return false, api.OK
		}
		if pending {
			continue
		}
		timeout := time.Duration(-1)
		if hasTimer {
			timeout = wait
		}
		fl.notifier.Wait(timeout)
	}
}

// step collects everything currently dispatchable under the mutex and runs
// the trampolines outside it. Returns the number of dispatched callbacks.
func (fl *Loop) step() int {
	var dispatch []func()

	fl.mu.Lock()
	dispatch = append(dispatch, fl.ready...)
	fl.ready = nil

	now := fl.nowLocked()
	for addr, b := range fl.handles {
		addr, b := addr, b
		if b.closing {
			if !b.closeDone {
				b.closeDone = true
				cb := b.closeCb
				dispatch = append(dispatch, func() {
					if cb != nil {
						cb(addr)
					}
				})
			}
			continue
		}
		if b.asyncPending {
			b.asyncPending = false
			cb := b.asyncCb
			dispatch = append(dispatch, func() { cb(addr) })
		}
		if b.kind == api.HandleTimer && b.active && b.due <= now {
			if b.repeat > 0 {
				b.due = now + b.repeat
			} else {
				b.active = false
			}
			cb := b.timerCb
			dispatch = append(dispatch, func() { cb(addr) })
		}
		if b.reading && b.hasFd {
			if items := fl.feeds[b.fd]; len(items) > 0 {
				item := items[0]
				fl.feeds[b.fd] = items[1:]
				alloc, read := b.allocCb, b.readCb
				fd := b.fd
				dispatch = append(dispatch, func() {
					fl.deliverRead(addr, fd, alloc, read, item)
				})
			}
		}
		if b.kind == api.HandlePoll && b.active {
			if ev := fl.pollReady[b.fd] & b.pollEvents; ev != 0 {
				fl.pollReady[b.fd] &^= ev
				cb := b.pollCb
				dispatch = append(dispatch, func() { cb(addr, api.OK, ev) })
			}
		}
	}
	fl.mu.Unlock()

	for _, fn := range dispatch {
		fn()
	}
	return len(dispatch)
}

func (fl *Loop) deliverRead(addr uintptr, fd int, alloc api.AllocTrampoline, read api.ReadTrampoline, item feedItem) {
	if item.eof {
		read(addr, 0, api.NativeBuf{})
		return
	}
	if item.code != api.OK {
		read(addr, int(item.code), api.NativeBuf{})
		return
	}
	buf := alloc(addr, suggestedReadSize)
	base, length := api.BufGet(buf)
	if base == nil && len(item.data) > 0 {
		read(addr, int(api.ENOBUFS), buf)
		return
	}
	n := 0
	if length > 0 {
		n = copy(base[:length], item.data)
	}
	if n < len(item.data) {
		rest := feedItem{data: item.data[n:]}
		fl.mu.Lock()
		fl.feeds[fd] = append([]feedItem{rest}, fl.feeds[fd]...)
		fl.mu.Unlock()
	}
	read(addr, n, buf)
}

// Close implements api.NativeLoop.
func (fl *Loop) Close() api.StatusCode {
	fl.mu.Lock()
	if len(fl.handles) > 0 || len(fl.requests) > 0 {
		fl.mu.Unlock()
		return api.EBUSY
	}
	already := fl.closed
	fl.closed = true
	fl.mu.Unlock()
	if !already {
		fl.notifier.Close()
	}
	return api.OK
}

// --- handle block management ---

func (fl *Loop) HandleAlloc(kind api.HandleKind) uintptr {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	addr := fl.nextAddr
	fl.nextAddr += 0x10
	fl.handles[addr] = &handleBlock{kind: kind, referenced: true}
	return addr
}

func (fl *Loop) HandleFree(addr uintptr) {
	fl.mu.Lock()
	delete(fl.handles, addr)
	fl.mu.Unlock()
}

func (fl *Loop) HandleClose(addr uintptr, cb api.CloseTrampoline) {
	fl.mu.Lock()
	if b, ok := fl.handles[addr]; ok && !b.closing {
		b.closing = true
		b.active = false
		b.reading = false
		b.asyncPending = false
		b.closeCb = cb
	}
	fl.mu.Unlock()
	fl.notifier.Notify()
}

func (fl *Loop) HandleIsActive(addr uintptr) bool {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, ok := fl.handles[addr]
	return ok && b.active && !b.closing
}

func (fl *Loop) HandleHasRef(addr uintptr) bool {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, ok := fl.handles[addr]
	return ok && b.referenced
}

func (fl *Loop) HandleRef(addr uintptr) {
	fl.mu.Lock()
	if b, ok := fl.handles[addr]; ok {
		b.referenced = true
	}
	fl.mu.Unlock()
}

func (fl *Loop) HandleUnref(addr uintptr) {
	fl.mu.Lock()
	if b, ok := fl.handles[addr]; ok {
		b.referenced = false
	}
	fl.mu.Unlock()
}

func (fl *Loop) HandleFileno(addr uintptr) (int, api.StatusCode) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, ok := fl.handles[addr]
	if !ok || !b.hasFd {
		return 0, api.EBADF
	}
	return b.fd, api.OK
}

// SendBufferSize stores and reports raw platform values: on Linux the set
// value is stored doubled, matching kernel setsockopt behavior.
func (fl *Loop) SendBufferSize(addr uintptr, value int) (int, api.StatusCode) {
	return fl.bufferSize(addr, value, true)
}

func (fl *Loop) RecvBufferSize(addr uintptr, value int) (int, api.StatusCode) {
	return fl.bufferSize(addr, value, false)
}

func (fl *Loop) bufferSize(addr uintptr, value int, send bool) (int, api.StatusCode) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, ok := fl.handles[addr]
	if !ok || b.closing {
		return 0, api.EBADF
	}
	switch b.kind {
	case api.HandlePipe, api.HandleTCP, api.HandleUDP:
	default:
		return 0, api.EINVAL
	}
	if value < 0 {
		return 0, api.EINVAL
	}
	slot := &b.recvBuf
	if send {
		slot = &b.sendBuf
	}
	if value == 0 {
		return *slot, api.OK
	}
	stored := value
	if normalize.IsLinux() {
		stored = value * 2
	}
	*slot = stored
	return stored, api.OK
}

// --- timers ---

func (fl *Loop) timerBlock(addr uintptr) (*handleBlock, api.StatusCode) {
	b, ok := fl.handles[addr]
	if !ok || b.kind != api.HandleTimer || b.closing {
		return nil, api.EINVAL
	}
	return b, api.OK
}

func (fl *Loop) TimerInit(addr uintptr) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	_, code := fl.timerBlock(addr)
	return code
}

func (fl *Loop) TimerStart(addr uintptr, cb api.EventTrampoline, timeout, repeat uint64) api.StatusCode {
	fl.mu.Lock()
	b, code := fl.timerBlock(addr)
	if code != api.OK {
		fl.mu.Unlock()
		return code
	}
	b.timerCb = cb
	b.due = fl.nowLocked() + timeout
	b.repeat = repeat
	b.active = true
	fl.mu.Unlock()
	fl.notifier.Notify()
	return api.OK
}

func (fl *Loop) TimerStop(addr uintptr) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, code := fl.timerBlock(addr)
	if code != api.OK {
		return code
	}
	b.active = false
	return api.OK
}

func (fl *Loop) TimerAgain(addr uintptr) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, code := fl.timerBlock(addr)
	if code != api.OK {
		return code
	}
	if b.timerCb == nil {
		return api.EINVAL
	}
	if b.repeat == 0 {
		b.active = false
		return api.OK
	}
	b.due = fl.nowLocked() + b.repeat
	b.active = true
	return api.OK
}

func (fl *Loop) TimerGetRepeat(addr uintptr) uint64 {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if b, code := fl.timerBlock(addr); code == api.OK {
		return b.repeat
	}
	return 0
}

func (fl *Loop) TimerSetRepeat(addr uintptr, repeat uint64) {
	fl.mu.Lock()
	if b, code := fl.timerBlock(addr); code == api.OK {
		b.repeat = repeat
	}
	fl.mu.Unlock()
}

// --- asyncs ---

func (fl *Loop) AsyncInit(addr uintptr, cb api.EventTrampoline) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, ok := fl.handles[addr]
	if !ok || b.kind != api.HandleAsync || b.closing {
		return api.EINVAL
	}
	b.asyncCb = cb
	b.active = true
	return api.OK
}

// AsyncSend is safe from any goroutine.
func (fl *Loop) AsyncSend(addr uintptr) api.StatusCode {
	fl.mu.Lock()
	b, ok := fl.handles[addr]
	if !ok || b.kind != api.HandleAsync || b.closing {
		fl.mu.Unlock()
		return api.EINVAL
	}
	b.asyncPending = true
	fl.mu.Unlock()
	fl.notifier.Notify()
	return api.OK
}

// --- signals ---

func (fl *Loop) SignalInit(addr uintptr) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, ok := fl.handles[addr]
	if !ok || b.kind != api.HandleSignal || b.closing {
		return api.EINVAL
	}
	return api.OK
}

func (fl *Loop) SignalStart(addr uintptr, cb api.SignalTrampoline, signum int) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, ok := fl.handles[addr]
	if !ok || b.kind != api.HandleSignal || b.closing {
		return api.EINVAL
	}
	b.signalCb = cb
	b.signum = signum
	b.active = true
	return api.OK
}

func (fl *Loop) SignalStop(addr uintptr) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, ok := fl.handles[addr]
	if !ok || b.kind != api.HandleSignal || b.closing {
		return api.EINVAL
	}
	b.active = false
	return api.OK
}

// --- fs events ---

func (fl *Loop) FSEventInit(addr uintptr) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, ok := fl.handles[addr]
	if !ok || b.kind != api.HandleFSEvent || b.closing {
		return api.EINVAL
	}
	return api.OK
}

func (fl *Loop) FSEventStart(addr uintptr, cb api.FSEventTrampoline, path string, flags int) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, ok := fl.handles[addr]
	if !ok || b.kind != api.HandleFSEvent || b.closing {
		return api.EINVAL
	}
	b.fsCb = cb
	b.fsPath = path
	b.active = true
	return api.OK
}

func (fl *Loop) FSEventStop(addr uintptr) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, ok := fl.handles[addr]
	if !ok || b.kind != api.HandleFSEvent || b.closing {
		return api.EINVAL
	}
	b.active = false
	return api.OK
}

// --- poll ---

func (fl *Loop) PollInit(addr uintptr, fd int) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, ok := fl.handles[addr]
	if !ok || b.kind != api.HandlePoll || b.closing {
		return api.EINVAL
	}
	if fd < 0 {
		return api.EBADF
	}
	b.fd = fd
	b.hasFd = true
	return api.OK
}

func (fl *Loop) PollStart(addr uintptr, events int, cb api.PollTrampoline) api.StatusCode {
	fl.mu.Lock()
	b, ok := fl.handles[addr]
	if !ok || b.kind != api.HandlePoll || b.closing || !b.hasFd {
		fl.mu.Unlock()
		return api.EINVAL
	}
	b.pollCb = cb
	b.pollEvents = events
	b.active = true
	fl.mu.Unlock()
	fl.notifier.Notify()
	return api.OK
}

func (fl *Loop) PollStop(addr uintptr) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, ok := fl.handles[addr]
	if !ok || b.kind != api.HandlePoll || b.closing {
		return api.EINVAL
	}
	b.active = false
	return api.OK
}

// --- pipes and streams ---

func (fl *Loop) PipeInit(addr uintptr, ipc bool) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, ok := fl.handles[addr]
	if !ok || b.kind != api.HandlePipe || b.closing {
		return api.EINVAL
	}
	b.ipc = ipc
	b.sendBuf = suggestedReadSize
	b.recvBuf = suggestedReadSize
	return api.OK
}

func (fl *Loop) PipeOpen(addr uintptr, fd int) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, ok := fl.handles[addr]
	if !ok || b.kind != api.HandlePipe || b.closing {
		return api.EINVAL
	}
	if fd < 0 {
		return api.EBADF
	}
	b.fd = fd
	b.hasFd = true
	return api.OK
}

func (fl *Loop) PipeConnect(req uintptr, addr uintptr, name string, cb api.RequestTrampoline) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, ok := fl.handles[addr]
	if !ok || b.kind != api.HandlePipe || b.closing {
		return api.EINVAL
	}
	if _, ok := fl.requests[req]; !ok {
		return api.EINVAL
	}
	lib := fl.lib
	fl.queueRequestLocked(req, cb, func() api.StatusCode {
		if lib.hasPipeServer(name) {
			return api.OK
		}
		return api.ECONNREFUSED
	})
	return api.OK
}

func (fl *Loop) streamBlock(addr uintptr) (*handleBlock, api.StatusCode) {
	b, ok := fl.handles[addr]
	if !ok || b.closing {
		return nil, api.EBADF
	}
	switch b.kind {
	case api.HandlePipe, api.HandleStream, api.HandleTCP, api.HandleTTY:
		return b, api.OK
	}
	return nil, api.EINVAL
}

func (fl *Loop) ReadStart(addr uintptr, alloc api.AllocTrampoline, read api.ReadTrampoline) api.StatusCode {
	fl.mu.Lock()
	b, code := fl.streamBlock(addr)
	if code != api.OK {
		fl.mu.Unlock()
		return code
	}
	b.allocCb = alloc
	b.readCb = read
	b.reading = true
	b.active = true
	fl.mu.Unlock()
	fl.notifier.Notify()
	return api.OK
}

func (fl *Loop) ReadStop(addr uintptr) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, code := fl.streamBlock(addr)
	if code != api.OK {
		return code
	}
	b.reading = false
	b.active = false
	return api.OK
}

func (fl *Loop) Write(req uintptr, addr uintptr, bufs []api.NativeBuf, cb api.RequestTrampoline) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	b, code := fl.streamBlock(addr)
	if code != api.OK {
		return code
	}
	if _, ok := fl.requests[req]; !ok {
		return api.EINVAL
	}
	fd := b.fd
	hasFd := b.hasFd
	fl.queueRequestLocked(req, cb, func() api.StatusCode {
		fl.mu.Lock()
		for _, buf := range bufs {
			base, length := api.BufGet(buf)
			chunk := make([]byte, length)
			copy(chunk, base[:length])
			if hasFd {
				fl.written[fd] = append(fl.written[fd], chunk)
			}
		}
		fl.mu.Unlock()
		return api.OK
	})
	return api.OK
}

func (fl *Loop) Shutdown(req uintptr, addr uintptr, cb api.RequestTrampoline) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if _, code := fl.streamBlock(addr); code != api.OK {
		return code
	}
	if _, ok := fl.requests[req]; !ok {
		return api.EINVAL
	}
	fl.queueRequestLocked(req, cb, nil)
	return api.OK
}

// --- requests ---

func (fl *Loop) RequestAlloc(kind api.RequestKind) uintptr {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	addr := fl.nextAddr
	fl.nextAddr += 0x10
	fl.requests[addr] = &requestBlock{kind: kind}
	return addr
}

func (fl *Loop) RequestFree(addr uintptr) {
	fl.mu.Lock()
	delete(fl.requests, addr)
	fl.mu.Unlock()
}

// Cancel succeeds only while the request has not been handed to its
// completion trampoline yet; the trampoline still runs, with ECANCELED.
func (fl *Loop) Cancel(addr uintptr) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	rb, ok := fl.requests[addr]
	if !ok {
		return api.EINVAL
	}
	if rb.dispatched {
		return api.EBUSY
	}
	rb.canceled = true
	return api.OK
}

// queueRequestLocked schedules a request completion. effect runs only when
// the request was not canceled; its status becomes the delivered status.
func (fl *Loop) queueRequestLocked(req uintptr, cb api.RequestTrampoline, effect func() api.StatusCode) {
	fl.ready = append(fl.ready, func() {
		fl.mu.Lock()
		rb, ok := fl.requests[req]
		if !ok {
			fl.mu.Unlock()
			return
		}
		rb.dispatched = true
		canceled := rb.canceled
		fl.mu.Unlock()

		status := api.OK
		if canceled {
			status = api.ECANCELED
		} else if effect != nil {
			status = effect()
		}
		cb(req, status)
	})
}

func (fl *Loop) GetAddrInfo(req uintptr, cb api.AddrInfoTrampoline, node, service string) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if _, ok := fl.requests[req]; !ok {
		return api.EINVAL
	}
	lib := fl.lib
	fl.ready = append(fl.ready, func() {
		fl.mu.Lock()
		rb, ok := fl.requests[req]
		if !ok {
			fl.mu.Unlock()
			return
		}
		rb.dispatched = true
		canceled := rb.canceled
		fl.mu.Unlock()

		if canceled {
			cb(req, api.ECANCELED, nil)
			return
		}
		if infos, ok := lib.resolve(node); ok {
			cb(req, api.OK, infos)
			return
		}
		cb(req, api.EAI_NONAME, nil)
	})
	return api.OK
}

// QueueWork runs the work function inline at dispatch time; a canceled job
// skips work entirely and completes with ECANCELED.
func (fl *Loop) QueueWork(req uintptr, work func(), after api.RequestTrampoline) api.StatusCode {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if _, ok := fl.requests[req]; !ok {
		return api.EINVAL
	}
	fl.queueRequestLocked(req, after, func() api.StatusCode {
		if work != nil {
			work()
		}
		return api.OK
	})
	return api.OK
}
