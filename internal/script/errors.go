package script

import "errors"

// Errors for script operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutorClosed is returned when the executor no longer accepts work.
	ErrExecutorClosed = errors.New("lua executor is closed")

	// ErrQueueFull is returned when an async call cannot be queued.
	ErrQueueFull = errors.New("lua executor queue full")

	// ErrUntypedTarget is returned when an invocation target has no type path.
	ErrUntypedTarget = errors.New("invocation target has no type path")
)
