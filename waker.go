package rt

// Waker re-enqueues the task it is bound to and unparks the host thread if it
// is currently idle. It is a small value type, cheap to copy, and safe to
// invoke from any goroutine — including the one FromFunc starts, or one an
// application spawned outside the runtime to perform blocking work.
//
// Invoking Waker after the task it names has already completed is harmless:
// the scheduler silently discards ready-queue entries whose task no longer
// exists in the task table.
type Waker struct {
	id taskID
	rt *Runtime
}

// Wake pushes the bound task onto the ready queue, then unparks the host
// thread. The order matters: a waiter that wakes up must always find the
// work that woke it already sitting in the queue.
func (w Waker) Wake() {
	w.rt.ready.push(w.id)

	w.rt.mu.Lock()
	w.rt.cv.Broadcast()
	w.rt.mu.Unlock()
}

func (rt *Runtime) newWaker(id taskID) Waker {
	return Waker{id: id, rt: rt}
}
