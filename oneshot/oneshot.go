// Package oneshot implements a single-producer, single-consumer mailbox that
// carries at most one value between a sender and a receiver.
//
// A channel starts Pending. Sending moves it to Active and makes the value
// available to one TryRecv call, which consumes it (Consumed). Either side
// may drop its end before the value crosses: dropping the sender while
// Pending closes the channel so the receiver observes disconnection instead
// of hanging forever; dropping the receiver while Pending closes it so a
// later Send fails and hands the value back to the caller.
package oneshot

import (
	"errors"
	"sync"
)

type status int8

const (
	statusPending status = iota
	statusActive
	statusConsumed
	statusClosed
)

// ErrEmpty is returned by TryRecv when no value has been sent yet and the
// sender is still alive.
var ErrEmpty = errors.New("oneshot: empty")

// ErrDisconnected is returned by TryRecv once the channel can never yield a
// value: the value was already consumed, or the peer dropped before sending.
var ErrDisconnected = errors.New("oneshot: disconnected")

type cell[T any] struct {
	mu     sync.Mutex
	status status
	value  T
}

// Sender is the producer end of a channel. Send may be called at most once,
// and not after Close: doing so is a programming error and panics. Close
// after Send or after Close is a no-op.
type Sender[T any] struct {
	c    *cell[T]
	used bool
}

// Receiver is the consumer end of a channel.
type Receiver[T any] struct {
	c    *cell[T]
	used bool
}

// Channel creates a connected Sender/Receiver pair, both starting Pending.
func Channel[T any]() (*Sender[T], *Receiver[T]) {
	c := &cell[T]{}
	return &Sender[T]{c: c}, &Receiver[T]{c: c}
}

// ClosedError is returned by Send when the receiver has already dropped.
// It carries the value back so the caller can recover or discard it.
type ClosedError[T any] struct{ Value T }

func (e *ClosedError[T]) Error() string { return "oneshot: send on a channel with no receiver" }

// Send delivers v to the receiver. On success it returns the zero value and
// a nil error. If the receiver already dropped, it returns v back wrapped in
// a *ClosedError so the caller can recover it.
//
// Calling Send after Send or Close on the same Sender is a contract
// violation and panics.
func (s *Sender[T]) Send(v T) (T, error) {
	if s.used {
		panic("oneshot: send on a sender already consumed")
	}
	s.used = true

	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	switch s.c.status {
	case statusPending:
		s.c.status = statusActive
		s.c.value = v
		var zero T
		return zero, nil
	case statusClosed:
		return v, &ClosedError[T]{Value: v}
	default:
		panic("oneshot: cell in an unexpected state for Send")
	}
}

// Close drops the sender without sending. If the channel is still Pending it
// transitions to Closed, so the receiver's next TryRecv reports
// ErrDisconnected instead of ErrEmpty forever. Close is a no-op if the sender
// already sent or already closed.
func (s *Sender[T]) Close() {
	if s.used {
		return
	}
	s.used = true

	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	if s.c.status == statusPending {
		s.c.status = statusClosed
	}
}

// TryRecv returns the delivered value if one is available (and consumes it),
// ErrEmpty if the sender hasn't sent yet, or ErrDisconnected if the value was
// already consumed or the sender dropped before sending.
func (r *Receiver[T]) TryRecv() (T, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	var zero T
	switch r.c.status {
	case statusActive:
		v := r.c.value
		r.c.value = zero
		r.c.status = statusConsumed
		return v, nil
	case statusPending:
		return zero, ErrEmpty
	default: // statusConsumed, statusClosed
		return zero, ErrDisconnected
	}
}

// Close drops the receiver. If the channel is still Pending it transitions
// to Closed, so a subsequent Send observes a dropped peer rather than
// succeeding into the void. Close is a no-op if already called.
func (r *Receiver[T]) Close() {
	if r.used {
		return
	}
	r.used = true

	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if r.c.status == statusPending {
		r.c.status = statusClosed
	}
}
