package rt

import (
	"errors"

	"github.com/ygrebnov/rt/oneshot"
)

// JoinHandle observes the eventual result of a spawned task. Poll it like
// any other Future; Close it to detach without waiting for the result.
type JoinHandle[T any] struct {
	resultRx *oneshot.Receiver[T]
	wakerTx  *oneshot.Sender[Waker]
	closed   bool
}

// Poll returns Optional{Ok:true} once the task's result mailbox has it. If
// the task completed before this handle ever suspended on it, the result
// was already deposited and is delivered on the very next poll regardless —
// the peer-wake side channel below only matters for waking a handle that is
// already parked waiting on it. If the task is gone without ever having
// produced a value (its sender was dropped, e.g. during teardown), Poll
// reports done with Ok:false rather than an error: an expected peer drop,
// not a programming fault.
func (h *JoinHandle[T]) Poll(w Waker) (Optional[T], bool) {
	v, err := h.resultRx.TryRecv()
	switch {
	case err == nil:
		return Optional[T]{Value: v, Ok: true}, true
	case errors.Is(err, oneshot.ErrEmpty):
		if h.wakerTx != nil {
			tx := h.wakerTx
			h.wakerTx = nil
			_, _ = tx.Send(w) // failure means the task already finished; the result will show up above next time.
		}
		return Optional[T]{}, false
	default: // ErrDisconnected
		return Optional[T]{}, true
	}
}

// Close drops the handle. If it never deposited its waker, the waker
// producer is closed here so the owning task's scheduler-side teardown sees
// a disconnected peer instead of leaving the mailbox pending forever.
func (h *JoinHandle[T]) Close() {
	if h.closed {
		return
	}
	h.closed = true
	h.resultRx.Close()
	if h.wakerTx != nil {
		h.wakerTx.Close()
		h.wakerTx = nil
	}
}
