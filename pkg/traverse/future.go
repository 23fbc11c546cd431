package traverse

import (
	"context"
	"sync"
)

// Future is the pending outcome of one read. It resolves exactly once,
// to the result or to nil when the read failed.
type Future struct {
	done      chan struct{}
	mu        sync.Mutex
	result    *Result
	completed bool
	callbacks []func(*Result)
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) complete(result *Result) {
	f.mu.Lock()
	if f.completed {
		f.mu.Unlock()
		return
	}
	f.result = result
	f.completed = true
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, fn := range callbacks {
		fn(result)
	}
}

// Done is closed once the future resolves
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await waits for the read or for ctx. The error is ctx.Err() only;
// read failures resolve to a nil result.
func (f *Future) Await(ctx context.Context) (*Result, error) {
	select {
	case <-f.done:
		return f.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Get blocks until the read finishes
func (f *Future) Get() *Result {
	<-f.done
	return f.result
}

// WhenComplete registers fn to run with the resolved value. If the future
// has already resolved, fn runs immediately on the calling goroutine.
func (f *Future) WhenComplete(fn func(*Result)) {
	f.mu.Lock()
	if !f.completed {
		f.callbacks = append(f.callbacks, fn)
		f.mu.Unlock()
		return
	}
	result := f.result
	f.mu.Unlock()
	fn(result)
}
