// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package asyncmq

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrEmpty is returned by a non-blocking Get/pop that found nothing to
// consume. It is a control flow signal, not a failure — the event-loop
// bridge's drain loop uses it as the loop-exit condition.
var ErrEmpty = errors.New("asyncmq: queue is empty")

// ErrFull is returned by the internal non-blocking push on a full bounded
// queue. It is not used on Post/Send's paths, which always push with
// wait=true, and no exported method returns it.
var ErrFull = errors.New("asyncmq: queue is full")

// ErrClosed is returned by Get once the owning AsyncMsgQ has been closed.
// Post and Send see it internally from the push: Post then releases the
// message itself, and Send returns -1. A Get(true) that is already blocked
// when Close runs is not woken by Close.
var ErrClosed = errors.New("asyncmq: queue is closed")

// IsWouldBlock reports whether err is ErrEmpty or ErrFull, or anything
// [iox.IsWouldBlock] accepts, i.e. a control flow signal rather than a
// failure. ErrClosed is not a would-block error.
func IsWouldBlock(err error) bool {
	return errors.Is(err, ErrEmpty) || errors.Is(err, ErrFull) || iox.IsWouldBlock(err)
}

// contractViolation reports a programmer error: calling Get while a
// message is already in flight, calling Done while idle, or closing the
// queue with a sender still blocked on a reply. These are not recoverable,
// so they panic rather than return an error a caller might ignore.
func contractViolation(format string, args ...any) {
	panic(fmt.Sprintf("asyncmq: contract violation: "+format, args...))
}
