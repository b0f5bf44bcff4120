package rt

import (
	"time"

	"github.com/ygrebnov/rt/oneshot"
)

// Sleep is a Future that resolves to its deadline (the time it was created
// plus the requested duration), once that deadline has passed. Obtain one
// from Runtime.Sleep.
type Sleep struct {
	deadline time.Time
	now      func() time.Time
	tx       *oneshot.Sender[Waker]
	deposited bool
}

// Sleep arms a timer for d and returns a Future that completes once it
// fires. The returned Sleep is registered with the runtime's timer wheel
// immediately; it does not wait for a first Poll to do so.
func (rt *Runtime) Sleep(d time.Duration) *Sleep {
	now := rt.clock()
	deadline := now.Add(d)
	tx, rx := oneshot.Channel[Waker]()
	rt.timers.register(deadline, rx)
	return &Sleep{deadline: deadline, now: rt.clock, tx: tx}
}

// Poll implements Future[time.Time].
//
// If the waker was already deposited on an earlier poll and the deadline has
// now passed, the sleep is done. If it was already deposited but the
// deadline has not passed, it remains pending without re-depositing — the
// mailbox can only carry one waker, and a repeat poll before completion (for
// example from a combinator that shares one waker across several pending
// sub-futures) must not disturb it. On the first poll: if the deadline has
// already passed, the producer is dropped without sending so the wheel's
// entry observes a disconnected peer and discards itself; otherwise the
// current waker is deposited and the sleep goes pending.
func (s *Sleep) Poll(w Waker) (time.Time, bool) {
	if s.deposited {
		if s.now().After(s.deadline) {
			return s.deadline, true
		}
		return time.Time{}, false
	}

	if s.now().After(s.deadline) {
		if s.tx != nil {
			s.tx.Close()
			s.tx = nil
		}
		return s.deadline, true
	}

	s.deposited = true
	tx := s.tx
	s.tx = nil
	if _, err := tx.Send(w); err != nil {
		// The wheel's receiver already dropped (runtime torn down): an
		// expected peer-drop, not an error — resolve immediately.
		return s.deadline, true
	}
	return time.Time{}, false
}

// Close cancels the sleep. If its waker was never deposited, the producer is
// dropped here, so when the wheel's entry comes due it finds a disconnected
// peer and is discarded without waking anything. The entry stays in the
// wheel until its deadline; Close does not remove it earlier.
func (s *Sleep) Close() {
	if s.tx != nil {
		s.tx.Close()
		s.tx = nil
	}
}
