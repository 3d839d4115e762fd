// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package asyncmq

import "golang.org/x/sys/unix"

// pipeWake is a self-pipe wake source, used on non-Linux unix platforms and
// as the Linux fallback when eventfd creation fails. Grounded on
// joeycumines-go-utilpkg/eventloop/wakeup_darwin.go's createWakeFd, which
// solves the identical problem (no eventfd on Darwin/BSD) the same way.
type pipeWake struct {
	readFd  int
	writeFd int
}

func newPipeWake() wakeSource {
	fds, err := unix.Pipe2(unix.O_CLOEXEC | unix.O_NONBLOCK)
	if err != nil {
		// Pipe2 is unavailable on some BSDs; fall back to the two-step
		// Pipe + SetNonblock sequence wakeup_darwin.go uses.
		var raw [2]int
		if err := unix.Pipe(raw[:]); err != nil {
			panic("asyncmq: failed to create wake pipe: " + err.Error())
		}
		fds = raw
		_ = unix.SetNonblock(fds[0], true)
		_ = unix.SetNonblock(fds[1], true)
	}
	return &pipeWake{readFd: fds[0], writeFd: fds[1]}
}

func (w *pipeWake) fd() int { return w.readFd }

func (w *pipeWake) notify() {
	var b [1]byte
	_, _ = unix.Write(w.writeFd, b[:])
}

func (w *pipeWake) drain() {
	var buf [64]byte
	for {
		n, err := unix.Read(w.readFd, buf[:])
		if err != nil || n == 0 {
			return
		}
	}
}

func (w *pipeWake) close() {
	_ = unix.Close(w.readFd)
	_ = unix.Close(w.writeFd)
}
