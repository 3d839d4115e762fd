// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package asyncmq

import (
	"testing"
	"time"
)

func TestSemaphoreTryWait(t *testing.T) {
	s := newSemaphore(2)

	if !s.tryWait() {
		t.Fatal("tryWait 1: want true")
	}
	if !s.tryWait() {
		t.Fatal("tryWait 2: want true")
	}
	if s.tryWait() {
		t.Fatal("tryWait 3: want false, semaphore exhausted")
	}

	s.post()
	if !s.tryWait() {
		t.Fatal("tryWait after post: want true")
	}
}

func TestSemaphoreWaitBlocksUntilPost(t *testing.T) {
	s := newSemaphore(0)

	done := make(chan struct{})
	go func() {
		s.wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("wait returned before post")
	case <-time.After(20 * time.Millisecond):
	}

	s.post()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("wait did not return after post")
	}
}

func TestSemaphoreMultipleWaitersEachGetOnePost(t *testing.T) {
	const n = 10
	s := newSemaphore(0)

	results := make(chan struct{}, n)
	for range n {
		go func() {
			s.wait()
			results <- struct{}{}
		}()
	}

	for range n {
		s.post()
	}

	for range n {
		select {
		case <-results:
		case <-time.After(time.Second):
			t.Fatal("a waiter never woke up")
		}
	}
}
