// File: loop/handle_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Handle lifecycle: close idempotence, destruction timing, init failure,
// reference counting, descriptor access and buffer size normalization.

package loop_test

import (
	"errors"
	"testing"
	"time"

	"github.com/momentics/uvbridge/api"
	"github.com/momentics/uvbridge/loop"
)

// TestHandle_CloseLifecycle checks the Closing -> Destroyed transition only
// happens inside the close completion, and the completion runs exactly once.
func TestHandle_CloseLifecycle(t *testing.T) {
	l, _ := newTestLoop(t)
	defer drain(t, l)

	tm, err := loop.NewTimer(l)
	if err != nil {
		t.Fatalf("NewTimer failed: %v", err)
	}
	if tm.IsClosing() || tm.IsClosed() {
		t.Fatal("fresh handle reports closing or closed")
	}

	completions := 0
	tm.Close(func() { completions++ })
	if !tm.IsClosing() {
		t.Error("handle not closing after Close")
	}
	if tm.IsClosed() {
		t.Error("handle destroyed before the close completion ran")
	}
	if completions != 0 {
		t.Error("close completion ran synchronously")
	}

	if _, err := l.Run(api.RunNoWait); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if completions != 1 {
		t.Fatalf("close completion ran %d times, want 1", completions)
	}
	if !tm.IsClosed() {
		t.Error("handle not destroyed after the close completion")
	}
}

// TestHandle_CloseIdempotent verifies repeated closes coalesce into one
// completion and the last registered callback wins.
func TestHandle_CloseIdempotent(t *testing.T) {
	l, _ := newTestLoop(t)
	defer drain(t, l)

	tm, _ := loop.NewTimer(l)
	first, second := 0, 0
	tm.Close(func() { first++ })
	tm.Close(func() { second++ })
	tm.Close(nil) // nil does not clear the recorded callback

	if _, err := l.Run(api.RunNoWait); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if first != 0 || second != 1 {
		t.Errorf("completions ran first=%d second=%d, want 0 and 1", first, second)
	}

	// Close after destruction stays silent.
	tm.Close(func() { t.Error("completion ran for a destroyed handle") })
	if _, err := l.Run(api.RunNoWait); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

// TestHandle_OperationsWhileClosing checks user-facing operations fail once
// close has begun.
func TestHandle_OperationsWhileClosing(t *testing.T) {
	l, _ := newTestLoop(t)
	defer drain(t, l)

	tm, _ := loop.NewTimer(l)
	tm.Close(nil)

	if err := tm.Start(time.Second, 0, nil); !errors.Is(err, api.ErrClosedHandle) {
		t.Errorf("Start on closing handle = %v, want ErrClosedHandle", err)
	}
	if err := tm.Reference(); !errors.Is(err, api.ErrClosedHandle) {
		t.Errorf("Reference on closing handle = %v, want ErrClosedHandle", err)
	}
	if _, err := tm.Fileno(); !errors.Is(err, api.ErrClosedHandle) {
		t.Errorf("Fileno on closing handle = %v, want ErrClosedHandle", err)
	}
}

// TestHandle_InitFailure verifies a failed native init leaves no trace: the
// handle is born destroyed and unregistered.
func TestHandle_InitFailure(t *testing.T) {
	l, fl := newTestLoop(t)
	defer drain(t, l)

	before := fl.HandleCount()
	p, err := loop.NewPoll(l, -1)
	if err == nil {
		t.Fatal("NewPoll with a bad descriptor succeeded")
	}
	var ne *api.NativeError
	if !errors.As(err, &ne) || ne.Code != api.EBADF {
		t.Fatalf("NewPoll error = %v, want NativeError EBADF", err)
	}
	if p != nil {
		t.Fatal("failed construction returned a handle")
	}
	if got := fl.HandleCount(); got != before {
		t.Errorf("native handle blocks = %d after failed init, want %d", got, before)
	}
	if got := len(l.Handles()); got != 0 {
		t.Errorf("failed handle registered on the loop: %d entries", got)
	}
}

// TestHandle_ReferenceCounting checks ref state drives the default run mode.
func TestHandle_ReferenceCounting(t *testing.T) {
	l, _ := newTestLoop(t)
	defer drain(t, l)

	tm, _ := loop.NewTimer(l)
	tm.Start(time.Hour, 0, func(*loop.Timer) {})
	if !tm.IsReferenced() {
		t.Fatal("fresh handle not referenced")
	}
	if !l.Alive() {
		t.Fatal("loop not alive with an active referenced handle")
	}

	if err := tm.Dereference(); err != nil {
		t.Fatalf("Dereference failed: %v", err)
	}
	if tm.IsReferenced() {
		t.Error("handle still referenced after Dereference")
	}
	if l.Alive() {
		t.Error("loop alive with only an unreferenced handle")
	}
	// An unreferenced active handle no longer blocks the default run.
	if more, err := l.Run(api.RunDefault); err != nil || more {
		t.Errorf("Run = (%v, %v), want immediate idle return", more, err)
	}

	if err := tm.Reference(); err != nil {
		t.Fatalf("Reference failed: %v", err)
	}
	if !tm.IsReferenced() || !l.Alive() {
		t.Error("Reference did not restore liveness")
	}
}

// TestHandle_Fileno checks descriptor access per handle kind.
func TestHandle_Fileno(t *testing.T) {
	l, _ := newTestLoop(t)
	defer drain(t, l)

	tm, _ := loop.NewTimer(l)
	if _, err := tm.Fileno(); !errors.Is(err, api.ErrInvalidOperation) {
		t.Errorf("timer Fileno = %v, want ErrInvalidOperation", err)
	}

	p, _ := loop.NewPipe(l, false)
	if err := p.Open(7); err != nil {
		t.Fatalf("pipe Open failed: %v", err)
	}
	fd, err := p.Fileno()
	if err != nil || fd != 7 {
		t.Errorf("pipe Fileno = (%d, %v), want 7", fd, err)
	}

	pw, _ := loop.NewPoll(l, 9)
	fd, err = pw.Fileno()
	if err != nil || fd != 9 {
		t.Errorf("poll Fileno = (%d, %v), want 9", fd, err)
	}
}

// TestHandle_BufferSizes checks get-after-set observes the set value and
// non-socket kinds reject the calls.
func TestHandle_BufferSizes(t *testing.T) {
	l, _ := newTestLoop(t)
	defer drain(t, l)

	p, _ := loop.NewPipe(l, false)
	if err := p.SetSendBufferSize(4096); err != nil {
		t.Fatalf("SetSendBufferSize failed: %v", err)
	}
	if got, err := p.SendBufferSize(); err != nil || got != 4096 {
		t.Errorf("SendBufferSize = (%d, %v), want 4096", got, err)
	}
	if err := p.SetReceiveBufferSize(8192); err != nil {
		t.Fatalf("SetReceiveBufferSize failed: %v", err)
	}
	if got, err := p.ReceiveBufferSize(); err != nil || got != 8192 {
		t.Errorf("ReceiveBufferSize = (%d, %v), want 8192", got, err)
	}

	// Non-socket kinds are rejected synchronously, before any native call.
	tm, _ := loop.NewTimer(l)
	if _, err := tm.SendBufferSize(); !errors.Is(err, api.ErrInvalidOperation) {
		t.Errorf("timer SendBufferSize = %v, want ErrInvalidOperation", err)
	}
	if err := tm.SetSendBufferSize(4096); !errors.Is(err, api.ErrInvalidOperation) {
		t.Errorf("timer SetSendBufferSize = %v, want ErrInvalidOperation", err)
	}
	if _, err := tm.ReceiveBufferSize(); !errors.Is(err, api.ErrInvalidOperation) {
		t.Errorf("timer ReceiveBufferSize = %v, want ErrInvalidOperation", err)
	}
	if err := tm.SetReceiveBufferSize(4096); !errors.Is(err, api.ErrInvalidOperation) {
		t.Errorf("timer SetReceiveBufferSize = %v, want ErrInvalidOperation", err)
	}
}

// TestHandle_DataField checks the free-form user slot survives the lifecycle.
func TestHandle_DataField(t *testing.T) {
	l, _ := newTestLoop(t)
	defer drain(t, l)

	tm, _ := loop.NewTimer(l)
	tm.Data = "payload"
	tm.Close(nil)
	if _, err := l.Run(api.RunNoWait); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if tm.Data != any("payload") {
		t.Error("Data slot lost across close")
	}
}

// TestHandle_KindTags checks kind reporting on concrete handles.
func TestHandle_KindTags(t *testing.T) {
	l, _ := newTestLoop(t)
	defer drain(t, l)

	tm, _ := loop.NewTimer(l)
	if tm.Kind() != api.HandleTimer {
		t.Errorf("timer Kind = %v", tm.Kind())
	}
	p, _ := loop.NewPipe(l, true)
	if p.Kind() != api.HandlePipe || !p.IPC() {
		t.Errorf("pipe Kind = %v ipc=%v", p.Kind(), p.IPC())
	}
	if tm.EventLoop() != l {
		t.Error("EventLoop does not return the owning loop")
	}
}
