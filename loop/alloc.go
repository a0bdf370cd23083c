// File: loop/alloc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Read buffer allocation. The default strategy reuses one loop-owned buffer:
// the native library consumes read data before the read callback returns, so
// a single buffer suffices. If a second allocation arrives while the buffer
// is handed out, an empty descriptor is returned, which the native layer
// reports as ENOBUFS.

package loop

import "github.com/momentics/uvbridge/api"

// Allocator provides destination buffers for native reads.
type Allocator interface {
	// Allocate returns a descriptor for the next read. An empty descriptor
	// signals allocation failure (ENOBUFS in the read callback).
	Allocate(suggested uint) api.NativeBuf

	// Release returns the buffer after its read callback has run. Data must
	// be copied out before Release.
	Release(buf api.NativeBuf)
}

type singleBufferAllocator struct {
	buf   []byte
	inUse bool
}

// NewSingleBufferAllocator builds the default one-buffer allocator.
func NewSingleBufferAllocator(size uint) Allocator {
	if size == 0 {
		size = defaultReadBufferSize
	}
	return &singleBufferAllocator{buf: make([]byte, size)}
}

func (a *singleBufferAllocator) Allocate(suggested uint) api.NativeBuf {
	var out api.NativeBuf
	if a.inUse {
		api.BufSet(&out, nil, 0)
		return out
	}
	a.inUse = true
	api.BufSet(&out, a.buf, uint(len(a.buf)))
	return out
}

func (a *singleBufferAllocator) Release(buf api.NativeBuf) {
	a.inUse = false
}
