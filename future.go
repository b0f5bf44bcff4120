package rt

// Future is a lazily-driven computation. Poll is called by the scheduler
// (never concurrently with itself) and must return immediately: either the
// value and true once the computation is finished, or the zero value and
// false if it isn't. A Future that returns false must first arrange for w to
// be woken later — by registering it with a mailbox, a timer, or a
// background goroutine — or it will never be polled again.
type Future[T any] interface {
	Poll(w Waker) (T, bool)
}

// Optional holds a value that may or may not be present, used where a
// result can legitimately be absent because a peer dropped rather than
// because of an error — see JoinHandle.Poll.
type Optional[T any] struct {
	Value T
	Ok    bool
}

// Ready returns a Future that is immediately done with v.
func Ready[T any](v T) Future[T] { return readyFuture[T]{v: v} }

type readyFuture[T any] struct{ v T }

func (f readyFuture[T]) Poll(Waker) (T, bool) { return f.v, true }

// Then runs fn over the result of f once f completes. Because fn is an
// ordinary synchronous Go function, the combination resolves as soon as f
// does — this is how a chain of dependent computations (the "a then b then
// c" shape) is expressed without language-level async/await.
func Then[T, U any](f Future[T], fn func(T) U) Future[U] {
	return &thenFuture[T, U]{inner: f, fn: fn}
}

type thenFuture[T, U any] struct {
	inner Future[T]
	fn    func(T) U
}

func (t *thenFuture[T, U]) Poll(w Waker) (U, bool) {
	v, done := t.inner.Poll(w)
	if !done {
		var zero U
		return zero, false
	}
	return t.fn(v), true
}

// JoinAll waits for every handle to complete and returns their results in
// the same order the handles were given, each wrapped in an Optional since a
// spawned task's join handle can observe a dropped peer instead of a value.
func JoinAll[T any](handles ...*JoinHandle[T]) Future[[]Optional[T]] {
	return &joinAllFuture[T]{
		handles: handles,
		results: make([]Optional[T], len(handles)),
		done:    make([]bool, len(handles)),
	}
}

type joinAllFuture[T any] struct {
	handles []*JoinHandle[T]
	results []Optional[T]
	done    []bool
}

func (j *joinAllFuture[T]) Poll(w Waker) ([]Optional[T], bool) {
	allDone := true
	for i, h := range j.handles {
		if j.done[i] {
			continue
		}
		v, d := h.Poll(w)
		if d {
			j.done[i] = true
			j.results[i] = v
		} else {
			allDone = false
		}
	}
	if !allDone {
		return nil, false
	}
	return j.results, true
}

// Yield is a Future that is Pending exactly once, waking its own caller
// immediately so the scheduler gets a chance to run other ready tasks before
// this one resumes. It is the Go analog of futures_lite::future::yield_now,
// useful for writing a long cooperative loop without a channel of its own.
func Yield() Future[struct{}] { return &yieldFuture{} }

type yieldFuture struct{ yielded bool }

func (f *yieldFuture) Poll(w Waker) (struct{}, bool) {
	if !f.yielded {
		f.yielded = true
		w.Wake()
		return struct{}{}, false
	}
	return struct{}{}, true
}

// YieldN returns a Future that yields control n times, each time the way
// Yield does (waking itself and going pending), before completing. It is a small helper for expressing a bounded cooperative loop
// as a single Future value, the shape used by the "yields repeatedly before
// finishing" scenario.
func YieldN(n int) Future[struct{}] { return &yieldNFuture{remaining: n} }

type yieldNFuture struct{ remaining int }

func (f *yieldNFuture) Poll(w Waker) (struct{}, bool) {
	if f.remaining <= 0 {
		return struct{}{}, true
	}
	f.remaining--
	w.Wake()
	return struct{}{}, false
}
