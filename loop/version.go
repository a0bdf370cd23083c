// File: loop/version.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Compiled-against native library version and the fail-fast skew check.

package loop

import (
	"fmt"

	"github.com/coreos/go-semver/semver"
	"github.com/momentics/uvbridge/api"
)

// Native version this binding was written against.
const (
	nativeVersionMajor = 1
	nativeVersionMinor = 0
	nativeVersionPatch = 0
)

// CompiledVersion returns the native library version the binding was
// compiled against.
func CompiledVersion() api.Version {
	return api.Version{
		Major: nativeVersionMajor,
		Minor: nativeVersionMinor,
		Patch: nativeVersionPatch,
	}
}

// checkVersion verifies the loaded native library against the
// compiled-against version: the major version must match exactly and the
// loaded minor version must not be older. Any skew aborts initialization.
func checkVersion(loaded api.Version) error {
	want := CompiledVersion()
	got, err := semver.NewVersion(loaded.String())
	if err != nil {
		return fmt.Errorf("%w: unparseable native version %q: %v",
			api.ErrVersionMismatch, loaded.String(), err)
	}
	if got.Major != int64(want.Major) || got.Minor < int64(want.Minor) {
		return fmt.Errorf("%w: compiled against %s, loaded %s",
			api.ErrVersionMismatch, want, loaded)
	}
	return nil
}
