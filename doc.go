// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package asyncmq provides a bounded, wake-source-backed asynchronous
// message queue for handing work from one thread context to another
// without blocking a realtime thread on a lock.
//
// A single queue instance connects exactly one producer side (any number
// of goroutines may post or send concurrently) to exactly one consumer side (one
// goroutine drains it, typically from inside an event loop). Messages
// carry an object to dispatch to, an integer code, a userdata payload,
// and an optional reference-counted memory chunk — see [Target],
// [MemBlock], and [MemChunk].
//
// # Quick Start
//
//	q := asyncmq.New(256)
//	defer q.Close()
//
//	// fire-and-forget, from any goroutine
//	q.Post(obj, 1, nil, 0, asyncmq.MemChunk{}, nil)
//
//	// synchronous round trip, blocks until the consumer calls Done
//	ret := q.Send(obj, 2, nil, 0, asyncmq.MemChunk{})
//
//	// consumer side, typically run from an event loop
//	for {
//	    object, code, userdata, offset, chunk, err := q.Get(true)
//	    if err != nil {
//	        break // queue closed
//	    }
//	    ret := asyncmq.Dispatch(object, code, userdata, offset, chunk)
//	    q.Done(ret)
//	}
//
// # Post vs Send
//
// Post enqueues a message and returns immediately; the caller's
// object/chunk references are handed to the queue and released by the
// consumer's Done. Send blocks the calling goroutine on a private
// semaphore until the consumer calls Done, then returns the handler's
// result; Send's item is never pool-allocated and never touches
// object/chunk refcounts, since the caller's own stack frame owns them
// for the call's duration.
//
// # Event-loop bridge
//
// A consumer embedded in an external poll/epoll loop calls [AsyncMsgQ.GetFD]
// once to obtain a descriptor to register, then on every wake-up:
//
//  1. [AsyncMsgQ.AfterPoll]
//  2. Get(false) / Dispatch / Done, repeated until Get returns an error
//  3. [AsyncMsgQ.BeforePoll]; if it returns nonzero, go back to step 2
//     before actually re-entering the poll
//
// [IOWatcher] packages this exact sequence behind unix.Poll for callers
// that do not already run their own main loop.
//
// # Error Handling
//
// Post never fails visibly to its caller. Send returns -1 if the queue is
// already closed. Get(false) returns [ErrEmpty] when nothing is pending, and
// Get returns [ErrClosed] once the queue is closed. Use [IsWouldBlock] to
// tell the would-block signal ([ErrEmpty], [ErrFull]) apart from a real
// failure, the way [code.hybscloud.com/iox] classifies its own
// ErrWouldBlock; [ErrClosed] is not a would-block error.
//
// # Capacity
//
// Capacity rounds up to the next power of 2, exactly as the underlying
// ring does; minimum capacity is 2.
//
// # Thread Safety
//
// Any number of goroutines may call Post/Send concurrently. Get/Dispatch/
// Done must only ever be called from a single goroutine at a time — this
// queue is MPSC, not MPMC. Violating that constraint is undefined
// behavior.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit memory
// ordering, [code.hybscloud.com/spin] for CPU pause instructions during
// CAS retries, and [golang.org/x/sys/unix] for the eventfd/pipe wake
// source and poll-based event loop bridge.
package asyncmq
