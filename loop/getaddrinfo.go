// File: loop/getaddrinfo.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// DNS lookup request wrapper. Resolution itself happens on the native side;
// this only manages the request lifecycle and result delivery.

package loop

import "github.com/momentics/uvbridge/api"

// GetAddrInfoRequest resolves a node/service pair into address records.
type GetAddrInfoRequest struct {
	Request
	Node    string
	Service string

	onResolved func(*GetAddrInfoRequest, []api.AddrInfo, error)
}

// GetAddrInfo issues a standalone resolution request on the loop.
func (l *Loop) GetAddrInfo(node, service string, cb func(*GetAddrInfoRequest, []api.AddrInfo, error)) (*GetAddrInfoRequest, error) {
	r := &GetAddrInfoRequest{Node: node, Service: service, onResolved: cb}
	if err := r.attach(l, api.RequestGetAddrInfo, r, nil); err != nil {
		return nil, err
	}
	code := l.native.GetAddrInfo(r.addr, l.addrInfoTrampoline, node, service)
	if err := r.issueStatus(code); err != nil {
		return nil, err
	}
	return r, nil
}

func (l *Loop) addrInfoTrampoline(addr uintptr, status api.StatusCode, infos []api.AddrInfo) {
	obj, ok := l.attachments.Lookup(addr)
	if !ok {
		return
	}
	r := obj.(*GetAddrInfoRequest)
	if cb := r.onResolved; cb != nil {
		l.guard(func() { cb(r, infos, api.StatusError(status)) })
	}
	r.finish()
}
