// File: loop/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Functional options for Loop construction.

package loop

const defaultReadBufferSize = 1 << 16

type config struct {
	readBufferSize uint
	allocator      Allocator
}

func defaultConfig() config {
	return config{readBufferSize: defaultReadBufferSize}
}

// Option customizes loop initialization.
type Option func(*config)

// WithReadBufferSize sets the size of the default read allocator's buffer.
func WithReadBufferSize(size uint) Option {
	return func(c *config) {
		if size > 0 {
			c.readBufferSize = size
		}
	}
}

// WithAllocator replaces the read buffer allocation strategy.
func WithAllocator(a Allocator) Option {
	return func(c *config) {
		c.allocator = a
	}
}
