// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package asyncmq

import "sync"

// item is the unit of communication passed through asyncQ. It is owned by
// exactly one party at any time: the producer until pushed, the queue
// until popped, the consumer ("current") until Done.
type item struct {
	code     int
	object   Target
	userdata any
	freeCb   FreeFunc
	offset   int64
	chunk    MemChunk
	replySem *semaphore // non-nil iff this item is a Send (reply-awaiting)
	ret      int
}

// reset clears every field that could retain a live reference, so the
// free-list never retains references to live objects or buffers.
func (it *item) reset() {
	it.code = 0
	it.object = nil
	it.userdata = nil
	it.freeCb = nil
	it.offset = 0
	it.chunk = MemChunk{}
	it.replySem = nil
	it.ret = 0
}

// itemPool is the process-wide item free-list: a per-P, effectively
// lock-free pool that falls back to a fresh allocation when empty and lets
// the GC reclaim entries under memory pressure rather than growing without
// bound. A hand-rolled CAS-based stack was considered and rejected: items
// are acquired concurrently by every producer, which would make a bespoke
// stack vulnerable to the ABA problem without hazard pointers.
var itemPool = sync.Pool{
	New: func() any { return new(item) },
}

// acquireItem returns an item from the free-list, falling back to a heap
// allocation when the list is empty.
func acquireItem() *item {
	return itemPool.Get().(*item)
}

// releaseItem returns it to the free-list for reuse. The item must not be
// touched again after this call.
func releaseItem(it *item) {
	it.reset()
	itemPool.Put(it)
}
