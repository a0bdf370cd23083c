// File: registry/attachments.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Address-keyed association between native memory blocks and their owning
// managed objects. The table is an arena of append-only slots with free-list
// reuse; each slot carries a generation counter so a token issued for one
// attachment can never resolve a later occupant of the same slot (or of a
// reused native address).
//
// Attachments are loop-scoped and mutated only from the loop's dispatch
// goroutine, so no locking is performed here.

package registry

import "github.com/momentics/uvbridge/api"

// Token validates that an attachment is still the one it was issued for.
type Token struct {
	slot int32
	gen  uint32
}

type slot struct {
	addr uintptr
	obj  any
	gen  uint32
	live bool
}

// Attachments maps native block addresses to managed owners.
type Attachments struct {
	slots []slot
	index map[uintptr]int32
	free  []int32
}

// NewAttachments creates an empty attachment table.
func NewAttachments() *Attachments {
	return &Attachments{
		index: make(map[uintptr]int32),
	}
}

// Attach records addr -> obj and returns a token for later validation.
// Attaching an address that is already mapped is a programming error and
// fails with ErrDuplicateAttachment without touching existing entries.
func (a *Attachments) Attach(addr uintptr, obj any) (Token, error) {
	if _, ok := a.index[addr]; ok {
		return Token{}, api.ErrDuplicateAttachment
	}
	var idx int32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.gen++
		s.addr, s.obj, s.live = addr, obj, true
	} else {
		idx = int32(len(a.slots))
		a.slots = append(a.slots, slot{addr: addr, obj: obj, live: true})
	}
	a.index[addr] = idx
	return Token{slot: idx, gen: a.slots[idx].gen}, nil
}

// Detach removes the mapping for addr and returns the owner that was
// attached. Fails with ErrNotAttached if the address is not mapped.
func (a *Attachments) Detach(addr uintptr) (any, error) {
	idx, ok := a.index[addr]
	if !ok {
		return nil, api.ErrNotAttached
	}
	s := &a.slots[idx]
	obj := s.obj
	s.obj, s.live, s.addr = nil, false, 0
	delete(a.index, addr)
	a.free = append(a.free, idx)
	return obj, nil
}

// Lookup resolves addr to its owner. Used by the callback trampolines on the
// hot path; it performs a single map probe and does not allocate.
func (a *Attachments) Lookup(addr uintptr) (any, bool) {
	idx, ok := a.index[addr]
	if !ok {
		return nil, false
	}
	return a.slots[idx].obj, true
}

// Resolve returns the owner a token was issued for, or false if the slot has
// since been detached or reused by a newer attachment.
func (a *Attachments) Resolve(tok Token) (any, bool) {
	if tok.slot < 0 || int(tok.slot) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[tok.slot]
	if !s.live || s.gen != tok.gen {
		return nil, false
	}
	return s.obj, true
}

// Len reports the number of live attachments.
func (a *Attachments) Len() int { return len(a.index) }
