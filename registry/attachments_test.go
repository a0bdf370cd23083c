// File: registry/attachments_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package registry

import (
	"errors"
	"testing"

	"github.com/momentics/uvbridge/api"
)

// TestAttachments_RoundTrip checks attach, lookup and detach return the same
// owner.
func TestAttachments_RoundTrip(t *testing.T) {
	a := NewAttachments()
	owner := &struct{ name string }{"timer"}

	tok, err := a.Attach(0x1000, owner)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if a.Len() != 1 {
		t.Fatalf("Len = %d, want 1", a.Len())
	}
	got, ok := a.Lookup(0x1000)
	if !ok || got != any(owner) {
		t.Fatalf("Lookup returned %v (ok=%v), want the attached owner", got, ok)
	}
	got, ok = a.Resolve(tok)
	if !ok || got != any(owner) {
		t.Fatalf("Resolve returned %v (ok=%v), want the attached owner", got, ok)
	}
	detached, err := a.Detach(0x1000)
	if err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	if detached != any(owner) {
		t.Fatal("Detach did not return the attached owner")
	}
	if a.Len() != 0 {
		t.Errorf("Len = %d after detach, want 0", a.Len())
	}
	if _, ok := a.Lookup(0x1000); ok {
		t.Error("Lookup succeeded after detach")
	}
}

// TestAttachments_DuplicateAddress verifies a second attach on a mapped
// address fails without disturbing the first.
func TestAttachments_DuplicateAddress(t *testing.T) {
	a := NewAttachments()
	first := "first"
	if _, err := a.Attach(0x2000, first); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if _, err := a.Attach(0x2000, "second"); !errors.Is(err, api.ErrDuplicateAttachment) {
		t.Fatalf("duplicate Attach error = %v, want ErrDuplicateAttachment", err)
	}
	got, ok := a.Lookup(0x2000)
	if !ok || got != any(first) {
		t.Error("original attachment disturbed by failed duplicate")
	}
}

// TestAttachments_DetachUnknown verifies detaching an unmapped address fails.
func TestAttachments_DetachUnknown(t *testing.T) {
	a := NewAttachments()
	if _, err := a.Detach(0x3000); !errors.Is(err, api.ErrNotAttached) {
		t.Fatalf("Detach error = %v, want ErrNotAttached", err)
	}
}

// TestAttachments_StaleToken verifies a token cannot resolve a slot occupant
// attached after the original was detached, even when both the slot and the
// native address are reused.
func TestAttachments_StaleToken(t *testing.T) {
	a := NewAttachments()
	tok, err := a.Attach(0x4000, "old")
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if _, err := a.Detach(0x4000); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	// Same address again: the free list reuses the slot, bumping generation.
	if _, err := a.Attach(0x4000, "new"); err != nil {
		t.Fatalf("re-Attach failed: %v", err)
	}
	if _, ok := a.Resolve(tok); ok {
		t.Error("stale token resolved the slot's new occupant")
	}
	got, ok := a.Lookup(0x4000)
	if !ok || got != any("new") {
		t.Error("Lookup did not return the new occupant")
	}
}

// TestAttachments_ResolveAfterDetach verifies tokens go dead on detach.
func TestAttachments_ResolveAfterDetach(t *testing.T) {
	a := NewAttachments()
	tok, _ := a.Attach(0x5000, "x")
	a.Detach(0x5000)
	if _, ok := a.Resolve(tok); ok {
		t.Error("token resolved after detach")
	}
	if _, ok := a.Resolve(Token{slot: 99, gen: 0}); ok {
		t.Error("out-of-range token resolved")
	}
}

// TestAttachments_SlotReuse checks the free list recycles slots instead of
// growing the arena.
func TestAttachments_SlotReuse(t *testing.T) {
	a := NewAttachments()
	for i := 0; i < 100; i++ {
		addr := uintptr(0x6000 + i*16)
		if _, err := a.Attach(addr, i); err != nil {
			t.Fatalf("Attach %d failed: %v", i, err)
		}
		if _, err := a.Detach(addr); err != nil {
			t.Fatalf("Detach %d failed: %v", i, err)
		}
	}
	if len(a.slots) != 1 {
		t.Errorf("arena grew to %d slots, want 1 reused slot", len(a.slots))
	}
}
