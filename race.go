// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package asyncmq

// RaceEnabled is true when the race detector is active.
// No test in this package reads it; it is available to tests or Example
// functions that touch atomix atomics directly, which trigger false
// positives in the race detector (it sees the padded atomic fields as
// plain memory accesses).
const RaceEnabled = true
