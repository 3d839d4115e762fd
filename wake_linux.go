// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package asyncmq

import "golang.org/x/sys/unix"

// eventfdWake is a wake source backed by a Linux eventfd, the same
// technique joeycumines-go-utilpkg/eventloop's wakeup_linux.go uses for its
// own wake-up notifications, narrowed from a whole event loop's wake pipe
// down to a single queue's fd.
type eventfdWake struct {
	efd int
}

func newWakeSource() wakeSource {
	efd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		// Fall back to a self-pipe if eventfd creation fails (e.g. fd
		// exhaustion); the self-pipe implementation is always available.
		return newPipeWake()
	}
	return &eventfdWake{efd: efd}
}

func (w *eventfdWake) fd() int { return w.efd }

func (w *eventfdWake) notify() {
	var buf [8]byte
	buf[7] = 1
	_, _ = unix.Write(w.efd, buf[:])
}

func (w *eventfdWake) drain() {
	var buf [8]byte
	for {
		_, err := unix.Read(w.efd, buf[:])
		if err != nil {
			return
		}
	}
}

func (w *eventfdWake) close() {
	_ = unix.Close(w.efd)
}
