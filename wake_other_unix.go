// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix && !linux

package asyncmq

// newWakeSource on non-Linux unix platforms (Darwin, *BSD) always uses the
// self-pipe implementation, exactly as
// joeycumines-go-utilpkg/eventloop/wakeup_darwin.go does in the absence of
// eventfd.
func newWakeSource() wakeSource {
	return newPipeWake()
}
