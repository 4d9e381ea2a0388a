package cache

import (
	"context"
	"sync"
)

// flight is one in-progress computation for a key, shared by every caller waiting on
// that key. waiters counts callers still blocked in await.
type flight[V any] struct {
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	waiters   int
	finished  bool
	abandoned bool

	value V
	err   error
}

// newFlight derives the computation context from the first caller's context without
// its cancellation, so request-scoped values survive but a single disconnect does not
// abort the shared work.
func newFlight[V any](parent context.Context) *flight[V] {
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	return &flight[V]{
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
		waiters: 1,
	}
}

// join registers another waiter. It fails if every previous waiter already left.
func (f *flight[V]) join() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.abandoned {
		return false
	}
	f.waiters++
	return true
}

// leave unregisters a waiter and reports whether it was the last one of an unfinished
// computation, in which case the computation is cancelled.
func (f *flight[V]) leave() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waiters--
	if f.waiters > 0 || f.finished {
		return false
	}
	f.abandoned = true
	f.cancel()
	return true
}

func (f *flight[V]) finish(value V, err error) {
	f.mu.Lock()
	if f.finished {
		f.mu.Unlock()
		return
	}
	f.finished = true
	f.value = value
	f.err = err
	f.mu.Unlock()
	close(f.done)
}
