// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package asyncmq

import (
	"golang.org/x/sys/unix"
)

// IOWatcher is a minimal standalone main loop that drives an AsyncMsgQ's
// consumer side with the bridge sequence described in the package doc's
// "Event-loop bridge" section:
//
//  1. AfterPoll
//  2. loop: while Get(wait=false) succeeds, Dispatch, Done
//  3. BeforePoll; if it returns nonzero, restart at step 2
//
// A server that already runs its own epoll/kqueue main loop would instead
// register q.GetFD() directly and call these same three steps from its
// own readiness callback; IOWatcher exists so the package is
// independently testable and usable without one.
type IOWatcher struct {
	q      *AsyncMsgQ
	stopR  int
	stopW  int
	done   chan struct{}
	handle func(code int)
}

// NewIOWatcher creates a watcher that, once started, drains q on every
// wake-up and calls handle with each dispatched message's code
// (mirroring the handler callback io_new's caller supplies).
func NewIOWatcher(q *AsyncMsgQ, handle func(code int)) (*IOWatcher, error) {
	fds, err := unix.Pipe2(unix.O_CLOEXEC | unix.O_NONBLOCK)
	if err != nil {
		return nil, err
	}
	return &IOWatcher{
		q:      q,
		stopR:  fds[0],
		stopW:  fds[1],
		done:   make(chan struct{}),
		handle: handle,
	}, nil
}

// Start runs the drain loop until Stop is called, blocking the calling
// goroutine (callers typically `go w.Start()`).
func (w *IOWatcher) Start() {
	defer close(w.done)

	pollfds := []unix.PollFd{
		{Fd: int32(w.q.GetFD()), Events: unix.POLLIN},
		{Fd: int32(w.stopR), Events: unix.POLLIN},
	}

	for {
		w.drainUntilEmpty()

		if w.pollUntilReadable(pollfds) {
			return
		}
	}
}

// drainUntilEmpty keeps draining as long as either Get finds something, or
// BeforePoll reports an item slipped in between the last empty check and
// re-arming the wake fd, so a push racing the consumer's transition back
// into poll is never missed.
func (w *IOWatcher) drainUntilEmpty() {
	w.q.AfterPoll()
	for {
		for {
			object, code, userdata, offset, chunk, err := w.q.Get(false)
			if err != nil {
				break
			}
			ret := Dispatch(object, code, userdata, offset, chunk)
			w.q.Done(ret)
			if w.handle != nil {
				w.handle(code)
			}
		}
		if w.q.BeforePoll() == 0 {
			return
		}
	}
}

func (w *IOWatcher) pollUntilReadable(pollfds []unix.PollFd) (stopped bool) {
	for {
		n, err := unix.Poll(pollfds, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return false
		}
		if n == 0 {
			continue
		}
		if pollfds[1].Revents&unix.POLLIN != 0 {
			return true
		}
		return false
	}
}

// Stop ends the watcher's loop and releases its stop pipe. It is safe to
// call once; Start's goroutine will observe it on its next wake-up.
func (w *IOWatcher) Stop() {
	var b [1]byte
	_, _ = unix.Write(w.stopW, b[:])
	<-w.done
	_ = unix.Close(w.stopR)
	_ = unix.Close(w.stopW)
}
