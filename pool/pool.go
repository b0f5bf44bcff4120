// Package pool provides a tiny reusable-object pool abstraction. The runtime
// uses it to recycle ready-queue buffers across poll iterations instead of
// allocating a fresh slice every time the queue is drained.
package pool

// Pool is an interface that defines methods on a pool of reusable values.
type Pool interface {
	// Get returns a value from the pool, creating one if none is available.
	Get() interface{}

	// Put returns a value to the pool for later reuse.
	Put(interface{})
}
