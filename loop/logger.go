// File: loop/logger.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package-level structured logger. Defaults to a nop logger; embedders
// inject their own with SetLogger.

package loop

import (
	"sync"

	"go.uber.org/zap"
)

var (
	loggerMu  sync.Mutex
	pkgLogger *zap.Logger
)

// Logger returns the package logger, initializing a nop logger on first use.
func Logger() *zap.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if pkgLogger == nil {
		pkgLogger = zap.NewNop()
	}
	return pkgLogger
}

// SetLogger replaces the package logger.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	pkgLogger = l
}
