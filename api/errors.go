// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Common error types and error handling utilities for uvbridge.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrClosedHandle        = fmt.Errorf("handle is closed or closing")
	ErrClosedLoop          = fmt.Errorf("loop is closed")
	ErrClosedRequest       = fmt.Errorf("request has already finished")
	ErrNoCurrentLoop       = fmt.Errorf("no current loop")
	ErrStillActive         = fmt.Errorf("loop has active referenced handles")
	ErrDuplicateAttachment = fmt.Errorf("address is already attached")
	ErrNotAttached         = fmt.Errorf("address is not attached")
	ErrVersionMismatch     = fmt.Errorf("native library version mismatch")
	ErrInvalidOperation    = fmt.Errorf("operation not valid for this handle kind")
)

// NativeError wraps a negative status code returned by a native call or
// delivered through a completion callback.
type NativeError struct {
	Code StatusCode
}

// NewNativeError builds a NativeError from a status code.
func NewNativeError(code StatusCode) *NativeError {
	return &NativeError{Code: code}
}

// Error implements the error interface.
func (e *NativeError) Error() string {
	return fmt.Sprintf("native error %s (%d): %s", e.Code.Name(), int(e.Code), e.Code.Message())
}

// StatusError converts a status code into an error: nil for success codes,
// *NativeError otherwise. Callers surface native failures verbatim.
func StatusError(code StatusCode) error {
	if code >= 0 {
		return nil
	}
	return NewNativeError(code)
}

// CallbackError captures a panic raised by user callback code inside the
// loop's callback-context guard. It is queued on the loop's error surface
// instead of unwinding into native dispatch.
type CallbackError struct {
	Value any    // recovered panic value
	Stack []byte // stack captured at the recovery point
}

// Error implements the error interface.
func (e *CallbackError) Error() string {
	return fmt.Sprintf("callback panic: %v", e.Value)
}
