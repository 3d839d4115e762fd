// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package asyncmq

import "sync/atomic"

// semaphore is a counting semaphore built from an atomic counter plus a
// buffered wake channel, the same technique the retrieved sema_spsc queue
// uses for its per-slot read/write semaphores: the atomic decrement is the
// fast, usually-uncontended path, and the channel is only touched when a
// waiter actually needs to sleep.
//
// asyncQ uses a pair of these (fill/empty) as the classic bounded-buffer
// semaphore pair guarding its lock-free ring; AsyncMsgQ.Send uses a single
// one, initialized to 0, as the reply semaphore a blocked sender waits on
// until the consumer's Done posts it.
type semaphore struct {
	count atomic.Int64
	ch    chan struct{}
}

// newSemaphore creates a semaphore with the given initial permit count.
func newSemaphore(initial int) *semaphore {
	s := &semaphore{ch: make(chan struct{}, 1)}
	s.count.Store(int64(initial))
	return s
}

// wait blocks until a permit is available, then consumes one.
func (s *semaphore) wait() {
	if s.count.Add(-1) < 0 {
		<-s.ch
	}
}

// tryWait consumes a permit without blocking. Returns false if none was
// available; the counter is only ever changed by a successful CAS from a
// positive value, so a failed tryWait leaves it untouched.
func (s *semaphore) tryWait() bool {
	for {
		cur := s.count.Load()
		if cur <= 0 {
			return false
		}
		if s.count.CompareAndSwap(cur, cur-1) {
			return true
		}
	}
}

// post releases one permit, waking a blocked waiter if one was already
// queued.
func (s *semaphore) post() {
	if s.count.Add(1) <= 0 {
		s.ch <- struct{}{}
	}
}
