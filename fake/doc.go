// File: fake/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package fake provides an in-memory implementation of the native event-loop
// boundary (api.NativeAPI / api.NativeLoop) for testing and development.
// Timers, asyncs and thread-pool work behave for real; streams, signals,
// filesystem watches and poll readiness are driven by injection helpers so
// tests can script exact native event sequences.
package fake
