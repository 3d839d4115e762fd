// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package asyncmq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// asyncQ is a bounded, FAA-based multi-producer single-consumer ring of
// *item with a readable wake fd attached, giving push/pop blocking
// semantics and an event-loop-friendly readiness signal on top of an
// otherwise non-blocking lock-free ring.
//
// Producers use FAA to blindly claim positions (SCQ-style), requiring 2n
// physical slots for capacity n.
type asyncQ struct {
	_    pad
	head atomix.Uint64 // Consumer index (single consumer writes, producers read)
	_    pad
	tail atomix.Uint64 // Producer index (FAA)
	_    pad

	buffer   []asyncQSlot
	capacity uint64 // n (usable capacity)
	size     uint64 // 2n (physical slots)
	mask     uint64 // 2n - 1

	// fillSem/emptySem are the classic bounded-buffer semaphore pair: every
	// successful push posts fillSem and waits emptySem; every successful
	// pop is the mirror image. Together they give push/pop their
	// wait=true blocking semantics on top of the otherwise non-blocking
	// CAS ring: a full queue suspends a waiting pusher, an empty queue
	// suspends a waiting popper.
	fillSem  *semaphore
	emptySem *semaphore

	wake wakeSource

	closed atomix.Bool
}

type asyncQSlot struct {
	cycle atomix.Uint64 // Round number
	data  *item
	_     padShort
}

// newAsyncQ creates a bounded asyncQ. Capacity rounds up to the next power
// of 2.
func newAsyncQ(capacity int) *asyncQ {
	if capacity < 2 {
		panic("asyncmq: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	size := n * 2

	q := &asyncQ{
		buffer:   make([]asyncQSlot, size),
		capacity: n,
		size:     size,
		mask:     size - 1,
		fillSem:  newSemaphore(0),
		emptySem: newSemaphore(int(n)),
		wake:     newWakeSource(),
	}

	for i := uint64(0); i < size; i++ {
		q.buffer[i].cycle.StoreRelaxed(i / n)
	}

	return q
}

// push enqueues it. If the queue is full and wait is true, blocks the
// producer until space is available; otherwise returns ErrFull. On
// success the consumer is guaranteed to observe it on a subsequent pop.
func (q *asyncQ) push(it *item, wait bool) error {
	if q.closed.LoadAcquire() {
		return ErrClosed
	}

	if wait {
		q.emptySem.wait()
	} else if !q.emptySem.tryWait() {
		return ErrFull
	}

	q.enqueueSlot(it)
	q.fillSem.post()
	q.wake.notify()
	return nil
}

// enqueueSlot runs the FAA/cycle-tag CAS protocol that finds a slot for it.
// By the time it is called, emptySem already accounts for the slot, so this
// loop exists to find *which* slot, not to enforce capacity a second time.
func (q *asyncQ) enqueueSlot(it *item) {
	sw := spin.Wait{}
	for {
		myTail := q.tail.AddAcqRel(1) - 1
		slot := &q.buffer[myTail&q.mask]
		expectedCycle := myTail / q.capacity

		slotCycle := slot.cycle.LoadAcquire()
		if slotCycle == expectedCycle {
			slot.data = it
			slot.cycle.StoreRelease(expectedCycle + 1)
			return
		}
		sw.Once()
	}
}

// pop dequeues one item (single consumer only). If the queue is empty and
// wait is true, blocks until an item is available; otherwise returns
// ErrEmpty immediately. Once the queue is closed it returns ErrClosed.
func (q *asyncQ) pop(wait bool) (*item, error) {
	if q.closed.LoadAcquire() {
		return nil, ErrClosed
	}
	if wait {
		q.fillSem.wait()
	} else if !q.fillSem.tryWait() {
		return nil, ErrEmpty
	}

	it := q.dequeueSlot()
	q.emptySem.post()
	return it, nil
}

func (q *asyncQ) dequeueSlot() *item {
	sw := spin.Wait{}
	for {
		head := q.head.LoadRelaxed()
		cycle := head / q.capacity
		slot := &q.buffer[head&q.mask]

		slotCycle := slot.cycle.LoadAcquire()
		if slotCycle != cycle+1 {
			sw.Once()
			continue
		}

		it := slot.data
		slot.data = nil
		nextEnqCycle := (head + q.size) / q.capacity
		slot.cycle.StoreRelease(nextEnqCycle)
		q.head.StoreRelaxed(head + 1)
		return it
	}
}

// fd returns a readable descriptor that becomes readable when there may be
// items to consume.
func (q *asyncQ) fd() int {
	return q.wake.fd()
}

// beforePoll must be called immediately before the consumer enters an
// external poll. Returns 0 if the queue is verifiably empty and the fd is
// armed for future pushes; returns nonzero if an item was observed, in
// which case the consumer must drain before polling rather than trust a
// stale empty reading.
func (q *asyncQ) beforePoll() int {
	if q.fillSem.count.Load() > 0 {
		return 1
	}
	return 0
}

// afterPoll must be called immediately after waking from an external poll,
// regardless of wake reason, draining pending edge-level notifications so
// the next beforePoll can re-arm.
func (q *asyncQ) afterPoll() {
	q.wake.drain()
}

// close marks the queue closed and releases the wake source. Callers must
// have already drained all items (AsyncMsgQ.Close enforces this).
func (q *asyncQ) close() {
	q.closed.StoreRelease(true)
	q.wake.close()
}
