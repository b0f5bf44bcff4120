package rt

import (
	"container/heap"
	"errors"
	"sync"
	"time"

	"github.com/ygrebnov/rt/metrics"
	"github.com/ygrebnov/rt/oneshot"
)

// timerEntry pairs a deadline with the consumer end of a mailbox that will
// later carry the wake notifier of the task suspended on it.
type timerEntry struct {
	deadline time.Time
	seq      uint64 // insertion order, breaks ties between equal deadlines
	rx       *oneshot.Receiver[Waker]
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)   { *h = append(*h, x.(*timerEntry)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// timerWheel is a deadline-ordered priority structure plus a zombie list:
// entries that came due before their owning task ever suspended on them
// (the mailbox was still Pending when the deadline passed) are retried on
// every subsequent tick until they resolve, rather than being dropped.
//
// container/heap is a standard-library choice: no example in the retrieval
// pack offers a generic deadline priority queue to ground this on instead,
// so this one component is built directly on the standard library (see
// DESIGN.md).
type timerWheel struct {
	mu      sync.Mutex
	heap    timerHeap
	zombies []*oneshot.Receiver[Waker]
	seq     uint64
	now     func() time.Time
	metrics metrics.Provider
}

func newTimerWheel(now func() time.Time, provider metrics.Provider) *timerWheel {
	return &timerWheel{now: now, metrics: provider}
}

// register adds a new deadline-ordered entry to the wheel.
func (t *timerWheel) register(deadline time.Time, rx *oneshot.Receiver[Waker]) {
	t.mu.Lock()
	t.seq++
	heap.Push(&t.heap, &timerEntry{deadline: deadline, seq: t.seq, rx: rx})
	t.mu.Unlock()
	t.metrics.Counter("rt_timers_armed_total").Add(1)
}

// earliestDeadline reports the nearest pending deadline, if any. The
// scheduler uses this as the absolute deadline for parking the host thread.
func (t *timerWheel) earliestDeadline() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.heap) == 0 {
		return time.Time{}, false
	}
	return t.heap[0].deadline, true
}

// tick pops every entry whose deadline has passed and retries every
// existing zombie. For each one: if its mailbox already holds a waker, wake
// it; if the mailbox is still Pending, the owning Sleep hasn't been polled
// since arming, so the entry becomes (or remains) a zombie; if the mailbox was
// dropped, the entry is discarded. It returns true if any zombie survives
// the pass, so the caller knows not to park: a surviving zombie means more
// work is pending even though nothing is in the ready queue yet.
func (t *timerWheel) tick() bool {
	t.mu.Lock()
	now := t.now()
	var due []*timerEntry
	for len(t.heap) > 0 && !t.heap[0].deadline.After(now) {
		due = append(due, heap.Pop(&t.heap).(*timerEntry))
	}
	zombies := t.zombies
	t.zombies = nil
	t.mu.Unlock()

	var newZombies []*oneshot.Receiver[Waker]
	fired, becameZombie := 0, 0

	for _, e := range due {
		w, err := e.rx.TryRecv()
		switch {
		case err == nil:
			fired++
			w.Wake()
		case errors.Is(err, oneshot.ErrEmpty):
			becameZombie++
			newZombies = append(newZombies, e.rx)
		}
	}

	for _, rx := range zombies {
		w, err := rx.TryRecv()
		switch {
		case err == nil:
			fired++
			w.Wake()
		case errors.Is(err, oneshot.ErrEmpty):
			newZombies = append(newZombies, rx)
		}
	}

	if fired > 0 {
		t.metrics.Counter("rt_timers_fired_total").Add(int64(fired))
	}
	if becameZombie > 0 {
		t.metrics.Counter("rt_timers_zombie_total").Add(int64(becameZombie))
	}

	t.mu.Lock()
	t.zombies = append(t.zombies, newZombies...)
	hasZombies := len(t.zombies) > 0
	t.mu.Unlock()

	return hasZombies
}
