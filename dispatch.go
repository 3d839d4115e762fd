// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package asyncmq

// Dispatch invokes object's handler with the given message. It is a pure
// function: it does not touch the queue, and if object is nil it simply
// returns 0.
func Dispatch(object Target, code int, userdata any, offset int64, chunk MemChunk) int {
	if object == nil {
		return 0
	}
	return object.ProcessMsg(object, code, userdata, offset, chunk)
}
