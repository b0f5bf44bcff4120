package rt

import "errors"

const Namespace = "rt"

var (
	// ErrInvalidOption is returned (wrapped) when New panics on a nil or
	// out-of-range Option. It is a programming contract violation, not a
	// condition callers are expected to recover from.
	ErrInvalidOption = errors.New(Namespace + ": invalid option")

	// ErrRootTaskDropped would indicate BlockOn's own internally-owned task
	// was dropped before producing a value. BlockOn never exposes a handle
	// to that task, so this is structurally unreachable; it exists only so
	// the defensive panic in BlockOn has a named sentinel to wrap.
	ErrRootTaskDropped = errors.New(Namespace + ": root task dropped before completion")
)
