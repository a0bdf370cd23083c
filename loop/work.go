// File: loop/work.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thread-pool work request wrapper. The work function runs off the loop on
// the native thread pool; the after callback runs on the loop with the
// outcome status (ECANCELED if the job was canceled before it started).

package loop

import "github.com/momentics/uvbridge/api"

// WorkRequest is one job submitted to the native thread pool.
type WorkRequest struct {
	Request
	work    func()
	onAfter func(*WorkRequest, error)
}

func (r *WorkRequest) complete(status api.StatusCode) {
	if cb := r.onAfter; cb != nil {
		cb(r, api.StatusError(status))
	}
}

// QueueWork submits work to the native thread pool. The work function must
// not touch loop state; the after callback runs on the loop goroutine.
func (l *Loop) QueueWork(work func(), after func(*WorkRequest, error)) (*WorkRequest, error) {
	r := &WorkRequest{work: work, onAfter: after}
	if err := r.attach(l, api.RequestWork, r, nil); err != nil {
		return nil, err
	}
	code := l.native.QueueWork(r.addr, work, l.requestTrampoline)
	if err := r.issueStatus(code); err != nil {
		return nil, err
	}
	return r, nil
}
