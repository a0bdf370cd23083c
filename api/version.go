// File: api/version.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Native library version introspection: a packed integer plus a string form.

package api

import "fmt"

// Version identifies the loaded native library build.
type Version struct {
	Major int
	Minor int
	Patch int
}

// VersionFromPacked unpacks the native library's packed version integer
// (major<<16 | minor<<8 | patch).
func VersionFromPacked(packed uint32) Version {
	return Version{
		Major: int(packed >> 16 & 0xff),
		Minor: int(packed >> 8 & 0xff),
		Patch: int(packed & 0xff),
	}
}

// Packed returns the packed integer form.
func (v Version) Packed() uint32 {
	return uint32(v.Major)<<16 | uint32(v.Minor)<<8 | uint32(v.Patch)
}

// String returns the dotted string form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
