// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build windows

package asyncmq

// chanWake is the Windows wake source. Windows has no eventfd/self-pipe
// equivalent usable with a generic poll primitive, so fd() returns -1
// here: "-1 means no wake fd, use the platform's native wait instead".
// Blocking push/pop (via the semaphore pair in queue.go) work identically
// on every platform; only the fd-driven event-loop bridge
// (GetFD/BeforePoll/AfterPoll) is Unix-only.
type chanWake struct {
	ch chan struct{}
}

func newWakeSource() wakeSource {
	return &chanWake{ch: make(chan struct{}, 1)}
}

func (w *chanWake) fd() int { return -1 }

func (w *chanWake) notify() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

func (w *chanWake) drain() {
	select {
	case <-w.ch:
	default:
	}
}

func (w *chanWake) close() {}
