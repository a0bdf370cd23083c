// File: api/status.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Signed status code space shared with the native library. Negative values
// are errors, zero and positive values are success or byte counts.

package api

// StatusCode is the signed result of a native call or completion callback.
type StatusCode int

const (
	OK StatusCode = 0

	// Errno-derived codes, negated as the native library reports them.
	ENOENT       StatusCode = -2
	EBADF        StatusCode = -9
	EAGAIN       StatusCode = -11
	EBUSY        StatusCode = -16
	EINVAL       StatusCode = -22
	EPIPE        StatusCode = -32
	ENOSYS       StatusCode = -38
	ENOBUFS      StatusCode = -105
	ECONNREFUSED StatusCode = -111
	ETIMEDOUT    StatusCode = -110
	ECANCELED    StatusCode = -125

	// Resolver codes live in their own range.
	EAI_NONAME StatusCode = -3008

	// Library-defined codes outside the errno range.
	EOF      StatusCode = -4095
	EUNKNOWN StatusCode = -4094
)

var statusMessages = map[StatusCode]string{
	OK:           "success",
	ENOENT:       "no such file or directory",
	EBADF:        "bad file descriptor",
	EAGAIN:       "resource temporarily unavailable",
	EBUSY:        "resource busy or locked",
	EINVAL:       "invalid argument",
	EPIPE:        "broken pipe",
	ENOSYS:       "function not implemented",
	ENOBUFS:      "no buffer space available",
	ECONNREFUSED: "connection refused",
	ETIMEDOUT:    "connection timed out",
	ECANCELED:    "operation canceled",
	EAI_NONAME:   "unknown node or service",
	EOF:          "end of file",
	EUNKNOWN:     "unknown error",
}

var statusNames = map[StatusCode]string{
	OK:           "OK",
	ENOENT:       "ENOENT",
	EBADF:        "EBADF",
	EAGAIN:       "EAGAIN",
	EBUSY:        "EBUSY",
	EINVAL:       "EINVAL",
	EPIPE:        "EPIPE",
	ENOSYS:       "ENOSYS",
	ENOBUFS:      "ENOBUFS",
	ECONNREFUSED: "ECONNREFUSED",
	ETIMEDOUT:    "ETIMEDOUT",
	ECANCELED:    "ECANCELED",
	EAI_NONAME:   "EAI_NONAME",
	EOF:          "EOF",
	EUNKNOWN:     "EUNKNOWN",
}

// Name returns the symbolic constant name, or a numeric form for codes the
// binding does not know by name.
func (c StatusCode) Name() string {
	if name, ok := statusNames[c]; ok {
		return name
	}
	return "E(" + itoa(int(c)) + ")"
}

// Message returns the human-readable description of the code.
func (c StatusCode) Message() string {
	if msg, ok := statusMessages[c]; ok {
		return msg
	}
	return "unrecognized status code"
}

func (c StatusCode) String() string {
	return c.Name() + ": " + c.Message()
}

// IsError reports whether the code denotes a failure.
func (c StatusCode) IsError() bool { return c < 0 }

// small, allocation-light itoa so Name stays off fmt in the hot path
func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [12]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
