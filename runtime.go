package rt

import (
	"errors"
	"fmt"
	"time"

	"v.io/x/lib/nsync"

	"github.com/ygrebnov/rt/metrics"
	"github.com/ygrebnov/rt/oneshot"
)

// Runtime drives Future values to completion on a single host thread. All
// user computation is polled from whichever goroutine is currently inside
// BlockOn; nothing here starts a goroutine of its own to run a Future.
type Runtime struct {
	mu nsync.Mu
	cv nsync.CV

	ready  *readyQueue
	timers *timerWheel
	tasks  map[taskID]*taskEntry
	nextID taskID

	clock   func() time.Time
	metrics metrics.Provider

	// lastTick remembers whether the most recent timer tick left a zombie
	// behind, so the park decision following it can skip parking instead of
	// waiting out a deadline that a zombie's own retry will resolve first.
	lastTick bool
}

// New constructs a Runtime. Options panic on invalid arguments rather than
// returning an error, the same way the teacher's functional options reject
// conflicting or out-of-range configuration eagerly.
func New(opts ...Option) *Runtime {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			panic(fmt.Errorf("%w: nil option", ErrInvalidOption))
		}
		opt(&cfg)
	}
	if err := validateConfig(&cfg); err != nil {
		panic(fmt.Errorf("%w: %v", ErrInvalidOption, err))
	}

	return &Runtime{
		ready:   newReadyQueue(),
		timers:  newTimerWheel(cfg.clock, cfg.metrics),
		tasks:   make(map[taskID]*taskEntry),
		clock:   cfg.clock,
		metrics: cfg.metrics,
	}
}

func (rt *Runtime) nextTaskID() taskID {
	rt.nextID++
	return rt.nextID
}

// Spawn schedules f to run alongside whatever else the runtime is already
// driving and returns a handle for observing its result. The new
// task is marked ready immediately, forcing a first poll on the next
// iteration of the loop, matching the two-poll-once-on-creation pattern the
// reference implementation uses for both spawn and block_on.
func Spawn[T any](rt *Runtime, f Future[T]) *JoinHandle[T] {
	id := rt.nextTaskID()

	resultTx, resultRx := oneshot.Channel[T]()
	wakerTx, wakerRx := oneshot.Channel[Waker]()

	wrapped := &resultWrapper[T]{inner: f, tx: resultTx}
	w := rt.newWaker(id)

	rt.tasks[id] = &taskEntry{fut: wrapped, waker: w, peerWaker: wakerRx}
	rt.metrics.Counter("rt_tasks_spawned_total").Add(1)
	rt.metrics.UpDownCounter("rt_tasks_inflight").Add(1)

	w.Wake()

	return &JoinHandle[T]{resultRx: resultRx, wakerTx: wakerTx}
}

// BlockOn drives f to completion, parking the host thread whenever there is
// no ready work and no timer due, and returns its value.
//
// BlockOn always owns the only reference to the task it drives internally —
// it never exposes a JoinHandle for it — so the "peer dropped before
// producing a value" case spec's Rust original leaves ambiguous between its
// two variants is structurally unreachable here: BlockOn returns T directly.
func BlockOn[T any](rt *Runtime, f Future[T]) T {
	id := rt.nextTaskID()

	resultTx, resultRx := oneshot.Channel[T]()
	wrapped := &resultWrapper[T]{inner: f, tx: resultTx}
	w := rt.newWaker(id)

	rt.tasks[id] = &taskEntry{fut: wrapped, waker: w}
	w.Wake()

	for {
		rt.pollOnce()

		v, err := resultRx.TryRecv()
		if err == nil {
			return v
		}
		if errors.Is(err, oneshot.ErrDisconnected) {
			panic(fmt.Errorf("%w", ErrRootTaskDropped))
		}

		if rt.ready.len() > 0 || rt.lastTick {
			continue
		}
		rt.parkUntilWork()
	}
}

// pollOnce runs one iteration of the scheduler's loop: advance the timer
// wheel, then drain and poll every task that became ready before the drain
// started. Tasks that become ready as a side effect of this drain (e.g. a
// task waking another) are picked up on the next iteration, not this one.
func (rt *Runtime) pollOnce() {
	start := time.Now()
	defer func() {
		rt.metrics.Histogram("rt_poll_loop_duration_seconds").Record(time.Since(start).Seconds())
	}()

	rt.lastTick = rt.timers.tick()

	batch := rt.ready.swap()
	defer rt.ready.release(batch)

	seen := make(map[taskID]struct{}, len(batch))
	for _, id := range batch {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		entry, ok := rt.tasks[id]
		if !ok {
			continue // stale entry: task already completed or was never spawned with this id.
		}

		if _, done := entry.fut.Poll(entry.waker); done {
			delete(rt.tasks, id)
			rt.metrics.Counter("rt_tasks_completed_total").Add(1)
			rt.metrics.UpDownCounter("rt_tasks_inflight").Add(-1)
			rt.wakePeer(entry)
		}
	}
}

// wakePeer handles the scheduler's edge policy for a task that just
// completed: if a peer had already deposited its waker (it was suspended on
// this task's JoinHandle), wake it. If the mailbox is still Pending, the
// peer never suspended — or never existed, for the task BlockOn drives
// internally — so dropping the receiver closes it cleanly instead of
// leaving it dangling.
func (rt *Runtime) wakePeer(entry *taskEntry) {
	if entry.peerWaker == nil {
		return
	}
	w, err := entry.peerWaker.TryRecv()
	if err == nil {
		w.Wake()
		return
	}
	if errors.Is(err, oneshot.ErrDisconnected) {
		rt.metrics.Counter("rt_tasks_dropped_total").Add(1)
	}
	entry.peerWaker.Close()
}

// parkUntilWork blocks the host thread until a waker fires or the earliest
// armed timer is due, whichever comes first. The check-then-wait is done
// under rt.mu, the same mutex every Waker.Wake takes around its broadcast,
// so a wake that lands between the ready-queue check and the wait can never
// be missed.
func (rt *Runtime) parkUntilWork() {
	deadline, hasDeadline := rt.timers.earliestDeadline()
	abs := nsync.NoDeadline
	if hasDeadline {
		abs = deadline
	}

	rt.mu.Lock()
	if rt.ready.len() == 0 {
		rt.cv.WaitWithDeadline(&rt.mu, abs, nil)
	}
	rt.mu.Unlock()
}
