// File: buffers/buffers.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Marshalling between managed byte slices and the native scatter/gather
// buffer representation. ToNative produces one descriptor per input buffer;
// the inputs are referenced, not copied, and must stay alive until the
// native call referencing them completes or is canceled (write requests pin
// them for exactly that window). FromNative copies out of native-owned
// descriptors so the result is safe to retain.

package buffers

import "github.com/momentics/uvbridge/api"

// ToNative converts byte slices into native buffer descriptors. Zero-length
// buffers are legal and produce a descriptor with length zero.
func ToNative(bufs ...[]byte) []api.NativeBuf {
	out := make([]api.NativeBuf, len(bufs))
	for i, b := range bufs {
		api.BufSet(&out[i], b, uint(len(b)))
	}
	return out
}

// FromNative copies n bytes out of a native buffer descriptor. n larger than
// the descriptor length is clamped; n <= 0 yields an empty slice.
func FromNative(buf api.NativeBuf, n int) []byte {
	if n <= 0 {
		return nil
	}
	base, length := api.BufGet(buf)
	if uint(n) > length {
		n = int(length)
	}
	out := make([]byte, n)
	copy(out, base[:n])
	return out
}

// ClassifyRead interprets a native read result.
//
//	nread > 0             -> data (copied), no EOF, no error
//	nread == 0, nil base  -> end of stream
//	nread == 0, base set  -> no data yet (spurious wakeup), neither EOF nor error
//	nread < 0             -> error with that status code
func ClassifyRead(nread int, buf api.NativeBuf) (data []byte, eof bool, err error) {
	switch {
	case nread > 0:
		return FromNative(buf, nread), false, nil
	case nread == 0:
		base, _ := api.BufGet(buf)
		return nil, base == nil, nil
	default:
		return nil, false, api.NewNativeError(api.StatusCode(nread))
	}
}
