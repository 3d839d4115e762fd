// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package asyncmq

// wakeSource is an event-fd-like wake source: an fd that becomes readable
// on push and is drained on afterPoll so the next push can re-arm it. The
// platform split (wake_linux.go / wake_pipe.go / wake_windows.go) uses a
// real eventfd on Linux and a self-pipe everywhere else unix-like.
type wakeSource interface {
	// fd returns the readable descriptor.
	fd() int
	// notify makes fd readable at least once. Spurious extra readiness is
	// permitted.
	notify()
	// drain consumes all pending readiness so a later notify reliably
	// re-arms fd.
	drain()
	// close releases the underlying descriptor(s).
	close()
}
