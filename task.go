package rt

import "github.com/ygrebnov/rt/oneshot"

// taskID identifies a task within a single Runtime. Identifiers are assigned
// monotonically and never reused, so a stale ready-queue entry referring to
// an identifier no longer in the task table is unambiguously safe to drop —
// there is no ABA risk from an identifier being recycled onto an unrelated
// task.
type taskID uint64

// taskEntry is the scheduler's bookkeeping for one live task. The task table
// that holds these is touched exclusively by the goroutine running the poll
// loop (inside BlockOn), so it needs no lock of its own — unlike the ready
// queue and timer wheel, which a Waker may reach from any goroutine.
type taskEntry struct {
	fut Future[struct{}]
	// waker is this task's own wake notifier, bound once at spawn time and
	// reused across every resumption.
	waker Waker
	// peerWaker is the consumer end of the mailbox a JoinHandle may deposit
	// its own waker into. It is nil for the task BlockOn drives internally,
	// since nothing ever joins that one.
	peerWaker *oneshot.Receiver[Waker]
}

// resultWrapper adapts a Future[T] into the Future[struct{}] shape the task
// table stores, delivering the inner future's result over a oneshot mailbox
// exactly once when it finishes.
type resultWrapper[T any] struct {
	inner Future[T]
	tx    *oneshot.Sender[T]
	sent  bool
}

func (r *resultWrapper[T]) Poll(w Waker) (struct{}, bool) {
	if r.sent {
		return struct{}{}, true
	}
	v, done := r.inner.Poll(w)
	if !done {
		return struct{}{}, false
	}
	r.sent = true
	_, _ = r.tx.Send(v) // a failed send means the handle was dropped; the result is simply discarded.
	return struct{}{}, true
}
