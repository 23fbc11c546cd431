package utils

import (
	"errors"
	"fmt"
	"sync"
)

// ErrExecutorClosed is returned by Submit after Close
var ErrExecutorClosed = errors.New("executor closed")

// PanicHandler receives values recovered from panicking tasks
type PanicHandler func(recovered any)

// Executor runs submitted tasks on a bounded number of concurrent slots.
// Submit never blocks the caller: a task waits in its own goroutine until
// a slot frees up.
type Executor struct {
	slots   chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
	onPanic PanicHandler
}

// NewExecutor creates an executor with the given number of slots
func NewExecutor(workers int, onPanic PanicHandler) *Executor {
	if workers <= 0 {
		workers = 1
	}
	return &Executor{
		slots:   make(chan struct{}, workers),
		onPanic: onPanic,
	}
}

// Workers returns the number of concurrent slots
func (e *Executor) Workers() int {
	return cap(e.slots)
}

// Submit schedules task for execution
func (e *Executor) Submit(task func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrExecutorClosed
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		e.slots <- struct{}{}
		defer func() { <-e.slots }()

		defer func() {
			if r := recover(); r != nil && e.onPanic != nil {
				e.onPanic(r)
			}
		}()

		task()
	}()
	return nil
}

// Wait blocks until every submitted task has finished
func (e *Executor) Wait() {
	e.wg.Wait()
}

// Stop rejects new tasks without waiting for the running ones
func (e *Executor) Stop() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
}

// Close rejects new tasks and waits for the running ones
func (e *Executor) Close() {
	e.Stop()
	e.wg.Wait()
}

// RecoveredError converts a recovered panic value into an error
func RecoveredError(recovered any) error {
	if err, ok := recovered.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", recovered)
}
