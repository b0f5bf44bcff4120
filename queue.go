package rt

import (
	"sync"

	"github.com/ygrebnov/rt/pool"
)

// readyQueue is the scheduler's FIFO of task identifiers that became
// runnable since the last drain. It is double buffered: push appends to the
// live buffer under a lock; swap atomically hands the whole buffer to the
// poll loop and installs a fresh one, so a waker invoked concurrently from
// another goroutine while the loop is mid-iteration never blocks on it and
// never loses an entry.
type readyQueue struct {
	mu  sync.Mutex
	buf []taskID

	// bufs recycles the backing arrays swap() hands out once the poll loop
	// is done with them, adapted from the teacher's dynamic worker pool
	// (pool.NewDynamic wraps sync.Pool) repurposed here to recycle []taskID
	// slices instead of worker objects.
	bufs pool.Pool
}

func newReadyQueue() *readyQueue {
	return &readyQueue{
		bufs: pool.NewDynamic(func() interface{} {
			return make([]taskID, 0, 16)
		}),
	}
}

func (q *readyQueue) push(id taskID) {
	q.mu.Lock()
	q.buf = append(q.buf, id)
	q.mu.Unlock()
}

func (q *readyQueue) len() int {
	q.mu.Lock()
	n := len(q.buf)
	q.mu.Unlock()
	return n
}

// swap hands back the current buffer and installs a recycled one in its
// place, so pushes that arrive while the caller is iterating the returned
// slice land in a separate backing array.
func (q *readyQueue) swap() []taskID {
	fresh := q.bufs.Get().([]taskID)[:0]

	q.mu.Lock()
	out := q.buf
	q.buf = fresh
	q.mu.Unlock()

	return out
}

// release returns a drained buffer to the pool for reuse.
func (q *readyQueue) release(buf []taskID) {
	if buf == nil {
		return
	}
	q.bufs.Put(buf[:0])
}
