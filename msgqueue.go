// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package asyncmq

import "sync"

// consumerState tracks the consumer's two-phase get/done protocol: Idle
// between Done and the next Get, InFlight between a successful Get and the
// matching Done.
type consumerState int32

const (
	stateIdle consumerState = iota
	stateInFlight
)

// AsyncMsgQ is the message-level façade built on asyncQ and the item pool:
// writer-side serialization, optional round-trip via a reply semaphore, and
// a two-phase get/done consumer contract.
type AsyncMsgQ struct {
	q *asyncQ

	// writerMu serializes producers' pushes onto asyncQ, even though the
	// underlying asyncQ is already MPSC-safe on its own. Acquiring and
	// populating the item happen before it is taken. It is not held across
	// Send's semaphore wait.
	writerMu sync.Mutex

	// current names the in-flight item between Get and Done. Only ever
	// touched by the single consumer, so it needs no synchronization of
	// its own.
	current *item
	state   consumerState

	closeOnce sync.Once
	closed    bool
}

// New creates an AsyncMsgQ with the given capacity hint, rounded up to the
// next power of 2 by the underlying asyncQ.
func New(capacity int) *AsyncMsgQ {
	return build(newOptions(capacity))
}

func build(o *Options) *AsyncMsgQ {
	return &AsyncMsgQ{q: newAsyncQ(o.capacity)}
}

// Post enqueues a fire-and-forget message. It never fails to the caller in
// normal use: the underlying push blocks until space is available.
func (a *AsyncMsgQ) Post(object Target, code int, userdata any, offset int64, chunk MemChunk, freeCb FreeFunc) {
	it := acquireItem()

	if object != nil {
		object.Ref()
		it.object = object
	}
	if chunk.Block != nil {
		chunk.Block.Ref()
	}
	it.chunk = chunk
	it.code = code
	it.userdata = userdata
	it.freeCb = freeCb
	it.offset = offset
	it.replySem = nil

	a.writerMu.Lock()
	err := a.q.push(it, true)
	a.writerMu.Unlock()

	if err != nil {
		// Only reachable if the queue was closed underneath the caller;
		// release what Post already claimed so nothing leaks.
		releasePostPath(it)
	}
}

// Send performs a synchronous round-trip. The item is a local value, never
// touching the pool: object/chunk refcounts are untouched by the queue on
// this path, and the caller's frame owns them for the duration of the
// call.
func (a *AsyncMsgQ) Send(object Target, code int, userdata any, offset int64, chunk MemChunk) int {
	it := &item{
		code:     code,
		object:   object,
		userdata: userdata,
		offset:   offset,
		chunk:    chunk,
		ret:      -1,
		replySem: newSemaphore(0),
	}

	a.writerMu.Lock()
	err := a.q.push(it, true)
	a.writerMu.Unlock()

	if err != nil {
		// Queue closed before the message could be delivered: nothing was
		// posted, so there is no reply to wait for.
		return -1
	}

	it.replySem.wait()
	return it.ret
}

// Get pops the next item (consumer step 1). Preconditions: the consumer is
// Idle. On ErrEmpty (wait=false only) the state remains Idle. Returns the
// fields the caller needs to Dispatch; chunk aliases the item's refcounted
// block and must not be released by the caller — that happens at Done.
func (a *AsyncMsgQ) Get(wait bool) (object Target, code int, userdata any, offset int64, chunk MemChunk, err error) {
	if a.state != stateIdle {
		contractViolation("Get called while a message is already in flight")
	}

	it, perr := a.q.pop(wait)
	if perr != nil {
		return nil, 0, nil, 0, MemChunk{}, perr
	}

	a.current = it
	a.state = stateInFlight
	return it.object, it.code, it.userdata, it.offset, it.chunk, nil
}

// Done completes the in-flight message (consumer step 2). Preconditions:
// the consumer is InFlight.
func (a *AsyncMsgQ) Done(ret int) {
	if a.state != stateInFlight {
		contractViolation("Done called with no message in flight")
	}

	it := a.current
	a.current = nil
	a.state = stateIdle

	if it.replySem != nil {
		// Send path: the waiting producer's frame owns object/chunk/
		// userdata. Do not release anything here.
		it.ret = ret
		it.replySem.post()
		return
	}

	releasePostPath(it)
}

// releasePostPath runs the post-path release sequence: free_cb, then
// object/chunk unref, then return to the pool.
func releasePostPath(it *item) {
	if it.freeCb != nil {
		it.freeCb(it.userdata)
	}
	if it.object != nil {
		it.object.Unref()
	}
	if it.chunk.Block != nil {
		it.chunk.Block.Unref()
	}
	releaseItem(it)
}

// WaitFor is a convenience loop for the consumer: repeatedly Get/Dispatch/
// Done until the processed message's code equals the requested code.
// Returns 0 on match, -1 if Get fails (queue closed).
func (a *AsyncMsgQ) WaitFor(code int) int {
	for {
		object, c, userdata, offset, chunk, err := a.Get(true)
		if err != nil {
			return -1
		}

		ret := Dispatch(object, c, userdata, offset, chunk)
		a.Done(ret)

		if c == code {
			return 0
		}
	}
}

// GetFD returns a readable descriptor that becomes readable when there may
// be items to consume, forwarding to the underlying asyncQ.
func (a *AsyncMsgQ) GetFD() int { return a.q.fd() }

// BeforePoll must be called immediately before the consumer enters an
// external poll; see asyncQ.beforePoll.
func (a *AsyncMsgQ) BeforePoll() int { return a.q.beforePoll() }

// AfterPoll must be called immediately after waking from an external poll;
// see asyncQ.afterPoll.
func (a *AsyncMsgQ) AfterPoll() { a.q.afterPoll() }

// Close drains and releases any residual items, all of which must be
// fire-and-forget posts: no blocked senders may remain at destruction,
// and that contract is enforced with a panic since violating it is a
// programmer error, not a recoverable condition.
func (a *AsyncMsgQ) Close() {
	a.closeOnce.Do(func() {
		for {
			it, err := a.q.pop(false)
			if err != nil {
				break
			}
			if it.replySem != nil {
				contractViolation("Close called with a blocked sender still pending")
			}
			releasePostPath(it)
		}
		a.closed = true
		a.q.close()
	})
}
