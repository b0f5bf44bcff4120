package pool

import "sync"

// NewDynamic is an unbounded pool backed by sync.Pool: Get creates a value
// via newFn when the pool is empty, and values Put back may be collected
// under memory pressure rather than held forever.
func NewDynamic(newFn func() interface{}) Pool {
	return &sync.Pool{New: newFn}
}
