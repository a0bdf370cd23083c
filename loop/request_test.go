// File: loop/request_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Request lifecycle: exactly-once completion, cancellation semantics,
// getaddrinfo resolution and thread-pool work.

package loop_test

import (
	"errors"
	"testing"

	"github.com/momentics/uvbridge/api"
	"github.com/momentics/uvbridge/fake"
	"github.com/momentics/uvbridge/loop"
)

// TestRequest_CancelDeliversCanceled checks cancellation does not skip the
// completion callback; it selects ECANCELED as its status, exactly once.
func TestRequest_CancelDeliversCanceled(t *testing.T) {
	l, fl, p := openPipe(t, 7)
	defer drain(t, l)

	completions := 0
	var writeErr error
	r, err := p.Write([][]byte{[]byte("abc")}, func(_ *loop.WriteRequest, err error) {
		completions++
		writeErr = err
	})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := r.Cancel(); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if _, err := l.Run(api.RunDefault); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if completions != 1 {
		t.Fatalf("completion ran %d times after cancel, want exactly 1", completions)
	}
	var ne *api.NativeError
	if !errors.As(writeErr, &ne) || ne.Code != api.ECANCELED {
		t.Errorf("canceled write error = %v, want NativeError ECANCELED", writeErr)
	}
	if len(fl.Written(7)) != 0 {
		t.Error("canceled write still reached the native side")
	}
	if !r.Finished() {
		t.Error("request not finished after canceled completion")
	}
}

// TestRequest_CancelAfterFinish checks cancel on a finished request degrades
// to an error, not a second completion.
func TestRequest_CancelAfterFinish(t *testing.T) {
	l, _, p := openPipe(t, 7)
	defer drain(t, l)

	completions := 0
	r, _ := p.Write([][]byte{[]byte("abc")}, func(*loop.WriteRequest, error) { completions++ })
	if _, err := l.Run(api.RunDefault); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := r.Cancel(); !errors.Is(err, api.ErrClosedRequest) {
		t.Errorf("Cancel after completion = %v, want ErrClosedRequest", err)
	}
	if _, err := l.Run(api.RunNoWait); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if completions != 1 {
		t.Errorf("completion ran %d times, want 1", completions)
	}
}

// TestRequest_NativeBlocksReleased checks request blocks are freed at
// completion.
func TestRequest_NativeBlocksReleased(t *testing.T) {
	l, fl, p := openPipe(t, 7)
	defer drain(t, l)

	p.Write([][]byte{[]byte("x")}, nil)
	p.Shutdown(nil)
	if got := fl.RequestCount(); got != 2 {
		t.Fatalf("native request blocks = %d in flight, want 2", got)
	}
	if _, err := l.Run(api.RunDefault); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := fl.RequestCount(); got != 0 {
		t.Errorf("native request blocks = %d after completion, want 0", got)
	}
}

// TestGetAddrInfo_Resolves checks lookup against the backend's host table.
func TestGetAddrInfo_Resolves(t *testing.T) {
	lib := fake.New()
	lib.AddHost("db.internal", api.AddrInfo{Family: 2, SockType: 1, Address: "10.0.0.12"})
	l, err := loop.New(lib)
	if err != nil {
		t.Fatalf("loop.New failed: %v", err)
	}
	defer drain(t, l)

	var got []api.AddrInfo
	r, err := l.GetAddrInfo("db.internal", "5432", func(_ *loop.GetAddrInfoRequest, infos []api.AddrInfo, err error) {
		if err != nil {
			t.Errorf("resolution failed: %v", err)
			return
		}
		got = infos
	})
	if err != nil {
		t.Fatalf("GetAddrInfo failed: %v", err)
	}
	if r.Node != "db.internal" || r.Service != "5432" {
		t.Errorf("request carries %q/%q", r.Node, r.Service)
	}
	if _, err := l.Run(api.RunDefault); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(got) != 1 || got[0].Address != "10.0.0.12" {
		t.Errorf("resolved %v, want 10.0.0.12", got)
	}
}

// TestGetAddrInfo_UnknownHost checks resolution failure status.
func TestGetAddrInfo_UnknownHost(t *testing.T) {
	l, _ := newTestLoop(t)
	defer drain(t, l)

	var resErr error
	l.GetAddrInfo("nowhere.invalid", "", func(_ *loop.GetAddrInfoRequest, infos []api.AddrInfo, err error) {
		resErr = err
	})
	if _, err := l.Run(api.RunDefault); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	var ne *api.NativeError
	if !errors.As(resErr, &ne) || ne.Code != api.EAI_NONAME {
		t.Errorf("unknown host error = %v, want NativeError EAI_NONAME", resErr)
	}
}

// TestQueueWork_RunsOffLoopThenCompletes checks the work/after split.
func TestQueueWork_RunsOffLoopThenCompletes(t *testing.T) {
	l, _ := newTestLoop(t)
	defer drain(t, l)

	worked := false
	var afterErr error
	done := false
	_, err := l.QueueWork(func() { worked = true }, func(_ *loop.WorkRequest, err error) {
		done = true
		afterErr = err
	})
	if err != nil {
		t.Fatalf("QueueWork failed: %v", err)
	}
	if _, err := l.Run(api.RunDefault); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !worked || !done || afterErr != nil {
		t.Errorf("worked=%v done=%v err=%v, want both true and nil", worked, done, afterErr)
	}
}

// TestQueueWork_CancelSkipsWork checks a canceled job never runs its work
// function and still completes with ECANCELED.
func TestQueueWork_CancelSkipsWork(t *testing.T) {
	l, _ := newTestLoop(t)
	defer drain(t, l)

	worked := false
	var afterErr error
	r, err := l.QueueWork(func() { worked = true }, func(_ *loop.WorkRequest, err error) {
		afterErr = err
	})
	if err != nil {
		t.Fatalf("QueueWork failed: %v", err)
	}
	if err := r.Cancel(); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if _, err := l.Run(api.RunDefault); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if worked {
		t.Error("canceled job still ran its work function")
	}
	var ne *api.NativeError
	if !errors.As(afterErr, &ne) || ne.Code != api.ECANCELED {
		t.Errorf("canceled job error = %v, want NativeError ECANCELED", afterErr)
	}
}

// TestRequest_KindTags checks kind reporting on concrete requests.
func TestRequest_KindTags(t *testing.T) {
	l, _, p := openPipe(t, 7)
	defer drain(t, l)

	w, _ := p.Write([][]byte{[]byte("x")}, nil)
	if w.Kind() != api.RequestWrite {
		t.Errorf("write Kind = %v", w.Kind())
	}
	s, _ := p.Shutdown(nil)
	if s.Kind() != api.RequestShutdown {
		t.Errorf("shutdown Kind = %v", s.Kind())
	}
	if w.EventLoop() != l {
		t.Error("EventLoop does not return the owning loop")
	}
	if _, err := l.Run(api.RunDefault); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}
