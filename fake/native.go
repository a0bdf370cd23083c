// File: fake/native.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"sync"

	"github.com/momentics/uvbridge/api"
)

// Lib is a fake native library. The zero version reported matches the
// binding's compiled-against version; NewWithVersion builds skewed libraries
// for version-check tests.
type Lib struct {
	version api.Version

	mu          sync.Mutex
	hosts       map[string][]api.AddrInfo
	pipeServers map[string]bool
	loops       []*Loop
}

// New creates a fake library reporting version 1.0.0.
func New() *Lib {
	return NewWithVersion(api.Version{Major: 1, Minor: 0, Patch: 0})
}

// NewWithVersion creates a fake library reporting the given version.
func NewWithVersion(v api.Version) *Lib {
	l := &Lib{
		version:     v,
		hosts:       make(map[string][]api.AddrInfo),
		pipeServers: make(map[string]bool),
	}
	l.hosts["localhost"] = []api.AddrInfo{{
		Family:   2, // AF_INET
		SockType: 1, // SOCK_STREAM
		Address:  "127.0.0.1",
	}}
	return l
}

// Version implements api.NativeAPI.
func (f *Lib) Version() api.Version { return f.version }

// NewLoop implements api.NativeAPI.
func (f *Lib) NewLoop() (api.NativeLoop, error) {
	fl, err := newLoop(f)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.loops = append(f.loops, fl)
	f.mu.Unlock()
	return fl, nil
}

// LastLoop returns the most recently created fake loop, for test injection.
func (f *Lib) LastLoop() *Loop {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.loops) == 0 {
		return nil
	}
	return f.loops[len(f.loops)-1]
}

// AddHost registers address records resolved by getaddrinfo requests.
func (f *Lib) AddHost(node string, infos ...api.AddrInfo) {
	f.mu.Lock()
	f.hosts[node] = infos
	f.mu.Unlock()
}

// AddPipeServer registers a named endpoint that pipe connects succeed
// against; unknown names fail with ECONNREFUSED.
func (f *Lib) AddPipeServer(name string) {
	f.mu.Lock()
	f.pipeServers[name] = true
	f.mu.Unlock()
}

func (f *Lib) resolve(node string) ([]api.AddrInfo, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	infos, ok := f.hosts[node]
	return infos, ok
}

func (f *Lib) hasPipeServer(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pipeServers[name]
}
