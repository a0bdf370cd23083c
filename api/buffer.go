// File: api/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Native buffer descriptor. One NativeBuf corresponds to one scatter/gather
// descriptor handed to the native read/write primitives. The fields are
// deliberately unexported: the native side manipulates descriptors only
// through BufSet/BufGet, mirroring the accessor calls the library exposes.

package api

// NativeBuf describes one contiguous region of managed memory referenced by
// a native call. The backing slice must remain valid and unmoved until the
// native call referencing it completes or is canceled.
type NativeBuf struct {
	base []byte
	len  uint
}

// BufSet fills a buffer descriptor. A nil base with zero length is legal and
// marks the end-of-stream sentinel in read callbacks.
func BufSet(buf *NativeBuf, base []byte, length uint) {
	buf.base = base
	buf.len = length
}

// BufGet returns the descriptor's base memory and its unsigned length.
func BufGet(buf NativeBuf) ([]byte, uint) {
	return buf.base, buf.len
}

// AddrInfo is one address record produced by a getaddrinfo request.
type AddrInfo struct {
	Family    int
	SockType  int
	Protocol  int
	CanonName string
	Address   string
}
