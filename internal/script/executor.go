package script

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// job is one unit of Lua work.
type job struct {
	fn   func(s *State) error
	done chan error // nil for fire-and-forget jobs
}

// Executor runs every operation on a State from a single goroutine, in the
// order the operations were queued.
//
// Usage:
//
//	exec := NewExecutor(state, 1024, onError)
//	go exec.Run(ctx)
//	defer exec.Close()
//
//	// From any goroutine:
//	err := exec.Execute(ctx, func(s *State) error {
//	    return s.DoString(ctx, `print("hi")`)
//	})
type Executor struct {
	state   *State
	queue   chan job
	onError func(error)

	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewExecutor creates an executor for state. onError receives the errors of
// fire-and-forget jobs and may be nil.
func NewExecutor(state *State, queueSize int, onError func(error)) *Executor {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &Executor{
		state:   state,
		queue:   make(chan job, queueSize),
		onError: onError,
		done:    make(chan struct{}),
	}
}

// Run processes jobs until ctx is cancelled or Close is called.
// It must be the only goroutine touching the State.
func (e *Executor) Run(ctx context.Context) {
	for {
		if e.closed.Load() {
			e.drain(ErrExecutorClosed)
			return
		}

		select {
		case <-ctx.Done():
			e.drain(ctx.Err())
			return
		case <-e.done:
			e.drain(ErrExecutorClosed)
			return
		case j := <-e.queue:
			e.finish(j, e.run(j))
		}
	}
}

// run executes a job, converting panics to errors.
func (e *Executor) run(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case error:
				err = v
			case string:
				err = errors.New(v)
			default:
				err = errors.New("lua panic")
			}
		}
	}()
	return j.fn(e.state)
}

func (e *Executor) finish(j job, err error) {
	if j.done != nil {
		j.done <- err
		close(j.done)
		return
	}
	if err != nil && e.onError != nil {
		e.onError(err)
	}
}

// drain fails every queued job with err.
func (e *Executor) drain(err error) {
	for {
		select {
		case j := <-e.queue:
			if j.done != nil {
				j.done <- err
				close(j.done)
			}
		default:
			return
		}
	}
}

// Execute queues fn and waits for it to finish.
func (e *Executor) Execute(ctx context.Context, fn func(s *State) error) error {
	if e.closed.Load() {
		return ErrExecutorClosed
	}

	j := job{fn: fn, done: make(chan error, 1)}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrExecutorClosed
	case e.queue <- j:
	}

	select {
	case <-ctx.Done():
		// Already queued; it still runs, we just stop waiting.
		return ctx.Err()
	case err, ok := <-j.done:
		if !ok {
			return ErrExecutorClosed
		}
		return err
	}
}

// Submit queues fn without waiting. It never blocks: a full queue drops the
// job and returns ErrQueueFull.
func (e *Executor) Submit(fn func(s *State) error) error {
	if e.closed.Load() {
		return ErrExecutorClosed
	}

	select {
	case <-e.done:
		return ErrExecutorClosed
	case e.queue <- job{fn: fn}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending returns the number of queued jobs.
func (e *Executor) Pending() int {
	return len(e.queue)
}

// Close stops the executor. Queued jobs fail with ErrExecutorClosed.
func (e *Executor) Close() {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		close(e.done)
	})
}

// IsClosed returns true if the executor has been closed.
func (e *Executor) IsClosed() bool {
	return e.closed.Load()
}
