// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package asyncmq

// Target is a polymorphic message target: an object a message can be
// dispatched to. Implementations interpret code/userdata/offset/chunk
// however is meaningful to them; the queue itself never inspects them.
//
// Target is deliberately a capability interface rather than a tagged union
// or a runtime class hierarchy, so the queue stays fully parametric over
// what it dispatches to.
type Target interface {
	// ProcessMsg handles one dispatched message and returns a reply code.
	// Called synchronously from Dispatch; implementations must not block
	// on anything that could itself post or send to the same queue, or
	// the single-consumer contract deadlocks.
	ProcessMsg(target Target, code int, userdata any, offset int64, chunk MemChunk) int

	// Ref and Unref implement atomic reference counting. The queue calls
	// Ref on enqueue and Unref on completion exactly once per post-path
	// item; send-path items never touch these.
	Ref()
	Unref()
}

// MemBlock is a reference-counted, immutable or copy-on-write memory
// region carrying audio samples. Ref/Unref must be safe to call from any
// goroutine.
type MemBlock interface {
	Ref()
	Unref()
}

// MemChunk is a window (block, offset, length) into a MemBlock. The zero
// value (Block == nil) means "no chunk attached".
type MemChunk struct {
	Block  MemBlock
	Offset int64
	Length int
}

// FreeFunc releases userdata posted with a fire-and-forget message. It is
// only meaningful on the post path — send-path items never carry one — and
// is invoked exactly once: by Done, by Close when it drains a pending
// message, or by Post itself when the queue is already closed.
type FreeFunc func(userdata any)
