// File: registry/pending.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pending set: the loop-scoped owner of every handle and request with an
// in-flight native operation. Membership alone keeps an object reachable;
// user-held references carry no liveness role. Membership is removed exactly
// once, at native completion or close.

package registry

// Pending holds objects that must survive while the native side references
// their memory blocks.
type Pending struct {
	members map[any]struct{}
}

// NewPending creates an empty pending set.
func NewPending() *Pending {
	return &Pending{members: make(map[any]struct{})}
}

// Add inserts an object into the set. Inserting an existing member is a
// no-op.
func (p *Pending) Add(obj any) {
	p.members[obj] = struct{}{}
}

// Remove deletes an object from the set and reports whether it was a member.
// A second removal is a defensive no-op: a cancel racing a natural
// completion must never fault.
func (p *Pending) Remove(obj any) bool {
	if _, ok := p.members[obj]; !ok {
		return false
	}
	delete(p.members, obj)
	return true
}

// Contains reports membership.
func (p *Pending) Contains(obj any) bool {
	_, ok := p.members[obj]
	return ok
}

// Len reports the number of pinned objects.
func (p *Pending) Len() int { return len(p.members) }
