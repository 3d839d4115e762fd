// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package asyncmq

import (
	"os"
	"sync"
	"testing"
)

func TestAsyncQFIFOOrder(t *testing.T) {
	q := newAsyncQ(4)

	for i := range 4 {
		it := &item{code: i}
		if err := q.push(it, false); err != nil {
			t.Fatalf("push(%d): %v", i, err)
		}
	}

	if err := q.push(&item{code: 999}, false); err != ErrFull {
		t.Fatalf("push on full: got %v, want ErrFull", err)
	}

	for i := range 4 {
		it, err := q.pop(false)
		if err != nil {
			t.Fatalf("pop(%d): %v", i, err)
		}
		if it.code != i {
			t.Fatalf("pop(%d): got code %d, want %d", i, it.code, i)
		}
	}

	if _, err := q.pop(false); err != ErrEmpty {
		t.Fatalf("pop on empty: got %v, want ErrEmpty", err)
	}
}

func TestAsyncQCapacityRoundsUpToPow2(t *testing.T) {
	q := newAsyncQ(3)
	if q.capacity != 4 {
		t.Fatalf("capacity: got %d, want 4", q.capacity)
	}
}

func TestAsyncQPushBlocksUntilSpace(t *testing.T) {
	q := newAsyncQ(2)

	if err := q.push(&item{code: 1}, false); err != nil {
		t.Fatalf("push 1: %v", err)
	}
	if err := q.push(&item{code: 2}, false); err != nil {
		t.Fatalf("push 2: %v", err)
	}

	done := make(chan struct{})
	go func() {
		if err := q.push(&item{code: 3}, true); err != nil {
			t.Errorf("blocked push: %v", err)
		}
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("blocked push returned before any space was freed")
	default:
	}

	if _, err := q.pop(false); err != nil {
		t.Fatalf("pop to free space: %v", err)
	}

	<-done
}

func TestAsyncQPopBlocksUntilItem(t *testing.T) {
	q := newAsyncQ(4)

	result := make(chan *item, 1)
	go func() {
		it, err := q.pop(true)
		if err != nil {
			t.Errorf("blocked pop: %v", err)
			return
		}
		result <- it
	}()

	select {
	case <-result:
		t.Fatal("blocked pop returned before any item was pushed")
	default:
	}

	if err := q.push(&item{code: 42}, false); err != nil {
		t.Fatalf("push: %v", err)
	}

	it := <-result
	if it.code != 42 {
		t.Fatalf("got code %d, want 42", it.code)
	}
}

func TestAsyncQConcurrentProducers(t *testing.T) {
	const producers = 8
	const perProducer = 200

	q := newAsyncQ(16)
	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range perProducer {
				if err := q.push(&item{code: id*perProducer + i}, true); err != nil {
					t.Errorf("push: %v", err)
					return
				}
			}
		}(p)
	}

	seen := make(map[int]bool)
	var mu sync.Mutex
	done := make(chan struct{})
	go func() {
		for range producers * perProducer {
			it, err := q.pop(true)
			if err != nil {
				t.Errorf("pop: %v", err)
				return
			}
			mu.Lock()
			seen[it.code] = true
			mu.Unlock()
		}
		close(done)
	}()

	wg.Wait()
	<-done

	if len(seen) != producers*perProducer {
		t.Fatalf("got %d distinct codes, want %d", len(seen), producers*perProducer)
	}
}

func TestAsyncQBeforeAfterPoll(t *testing.T) {
	q := newAsyncQ(4)

	if q.beforePoll() != 0 {
		t.Fatal("beforePoll on empty queue: want 0")
	}

	if err := q.push(&item{code: 1}, false); err != nil {
		t.Fatalf("push: %v", err)
	}

	if q.beforePoll() == 0 {
		t.Fatal("beforePoll after push: want nonzero")
	}

	if _, err := q.pop(false); err != nil {
		t.Fatalf("pop: %v", err)
	}
	q.afterPoll()

	if q.beforePoll() != 0 {
		t.Fatal("beforePoll after drain: want 0")
	}
}

func TestAsyncQWakeFDReadableAfterPush(t *testing.T) {
	q := newAsyncQ(4)

	fd := q.fd()
	if fd < 0 {
		t.Skip("platform wake source has no pollable fd")
	}

	if err := q.push(&item{code: 1}, false); err != nil {
		t.Fatalf("push: %v", err)
	}

	f := os.NewFile(uintptr(fd), "wake")
	var buf [8]byte
	n, err := f.Read(buf[:])
	if err != nil || n == 0 {
		t.Fatalf("wake fd not readable after push: n=%d err=%v", n, err)
	}
}

// TestBeforePollRearmRace demonstrates why the event-loop bridge must
// restart draining when beforePoll returns nonzero instead of polling
// immediately: a push landing between the consumer's last pop and its call
// to beforePoll must still be observed before the consumer blocks in poll,
// or that item's wake-up is lost until some later, unrelated push arrives.
func TestBeforePollRearmRace(t *testing.T) {
	q := newAsyncQ(4)

	if err := q.push(&item{code: 1}, false); err != nil {
		t.Fatalf("push: %v", err)
	}
	if _, err := q.pop(false); err != nil {
		t.Fatalf("pop: %v", err)
	}
	q.afterPoll()

	// A second push races in after the drain loop's last pop but before it
	// calls beforePoll, the exact window the bridge's restart-on-nonzero
	// rule exists to close.
	if err := q.push(&item{code: 2}, false); err != nil {
		t.Fatalf("push: %v", err)
	}

	if q.beforePoll() == 0 {
		t.Fatal("beforePoll must report nonzero so the consumer restarts draining, not poll on a stale empty read")
	}

	it, err := q.pop(false)
	if err != nil {
		t.Fatalf("pop after rearm race: %v", err)
	}
	if it.code != 2 {
		t.Fatalf("pop after rearm race: got code %d, want 2", it.code)
	}
}

func TestAsyncQCloseRejectsPush(t *testing.T) {
	q := newAsyncQ(4)
	q.close()

	if err := q.push(&item{code: 1}, false); err != ErrClosed {
		t.Fatalf("push after close: got %v, want ErrClosed", err)
	}
}
