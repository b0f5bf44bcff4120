package rt

import (
	"context"
	"errors"
	"fmt"

	"github.com/ygrebnov/rt/oneshot"
)

// panicError wraps a recovered panic value so it surfaces through the
// normal error-handling paths instead of crossing goroutine boundaries
// silently, mirroring the teacher's taskResult/taskResultError panic
// recovery in task.go.
type panicError struct{ recovered any }

func (e *panicError) Error() string { return fmt.Sprintf("rt: task panicked: %v", e.recovered) }

type funcResult[T any] struct {
	value   T
	failure *panicError
}

// FromFunc adapts an ordinary, possibly blocking, Go function into a
// Future[T]. On the first Poll it launches fn on its own goroutine — outside
// the runtime's single host thread, exactly as spec'd for a notifier that
// may be invoked from a goroutine an application spawned itself — and
// deposits the completion waker there; fn's return value (or a recovered
// panic) is delivered back through a oneshot mailbox and observed on the
// next Poll.
//
// This is grounded in the teacher's task.go, which wraps the same three
// function shapes in a goroutine plus a done channel with panic recovery;
// here the "done channel" is a oneshot.Channel and the signal that work
// finished is a Waker instead of a channel close.
func FromFunc[T any](ctx context.Context, fn func(context.Context) T) Future[T] {
	return &funcFuture[T]{ctx: ctx, fn: fn}
}

type funcFuture[T any] struct {
	ctx     context.Context
	fn      func(context.Context) T
	started bool
	rx      *oneshot.Receiver[funcResult[T]]
}

func (f *funcFuture[T]) Poll(w Waker) (T, bool) {
	var zero T

	if !f.started {
		f.started = true
		tx, rx := oneshot.Channel[funcResult[T]]()
		f.rx = rx

		go func() {
			defer func() {
				if p := recover(); p != nil {
					_, _ = tx.Send(funcResult[T]{failure: &panicError{recovered: p}})
					w.Wake()
				}
			}()
			v := f.fn(f.ctx)
			_, _ = tx.Send(funcResult[T]{value: v})
			w.Wake()
		}()

		return zero, false
	}

	res, err := f.rx.TryRecv()
	switch {
	case err == nil:
		if res.failure != nil {
			panic(res.failure)
		}
		return res.value, true
	case errors.Is(err, oneshot.ErrEmpty):
		return zero, false
	default:
		panic(fmt.Errorf("rt: FromFunc result channel disconnected unexpectedly: %w", err))
	}
}
