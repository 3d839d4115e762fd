// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package asyncmq_test

import (
	"fmt"

	"code.hybscloud.com/asyncmq"
)

type logTarget struct{}

func (logTarget) ProcessMsg(_ asyncmq.Target, code int, userdata any, _ int64, _ asyncmq.MemChunk) int {
	fmt.Printf("dispatched code=%d userdata=%v\n", code, userdata)
	return code
}

func (logTarget) Ref()   {}
func (logTarget) Unref() {}

// ExampleAsyncMsgQ_Post demonstrates the fire-and-forget path: Post returns
// immediately, and the consumer drains it with Get/Dispatch/Done.
func ExampleAsyncMsgQ_Post() {
	q := asyncmq.New(8)
	defer q.Close()

	var tg logTarget
	q.Post(tg, 1, "hello", 0, asyncmq.MemChunk{}, nil)

	object, code, userdata, offset, chunk, err := q.Get(true)
	if err != nil {
		return
	}
	ret := asyncmq.Dispatch(object, code, userdata, offset, chunk)
	q.Done(ret)

	// Output:
	// dispatched code=1 userdata=hello
}

// ExampleAsyncMsgQ_Send demonstrates the synchronous round trip: Send blocks
// the caller until the consumer calls Done.
func ExampleAsyncMsgQ_Send() {
	q := asyncmq.New(8)
	defer q.Close()

	var tg logTarget

	go func() {
		object, code, userdata, offset, chunk, err := q.Get(true)
		if err != nil {
			return
		}
		ret := asyncmq.Dispatch(object, code, userdata, offset, chunk)
		q.Done(ret)
	}()

	ret := q.Send(tg, 7, "request", 0, asyncmq.MemChunk{})
	fmt.Println("reply:", ret)

	// Unordered output:
	// dispatched code=7 userdata=request
	// reply: 7
}
