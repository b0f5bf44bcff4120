// Package rt implements a single-threaded, cooperative task runtime: a
// scheduler that drives user-supplied Future values to completion on one
// host thread, a timer wheel for sleeping, and join handles for observing a
// spawned task's result.
//
// The scheduler never polls a Future on a goroutine of its own: a Future's
// Poll method is only ever called from the goroutine that is currently inside
// BlockOn. The one place this package starts a goroutine is FromFunc, which
// runs its blocking function off to the side and wakes the polling task when
// it returns. Wakers are ordinary values and may be invoked from any
// goroutine, including FromFunc's and ones an application spawns itself.
package rt
