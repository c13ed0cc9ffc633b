package fetch

import (
	"context"
	"sync"
)

type State[T any] struct {
	Data    T
	Loading bool
	Err     error
}

// Resource tracks one GET at a time for a single resource path.
//
// A cycle starts in loading and ends in success or failure. Loading a new
// path restarts the cycle; the result of a superseded request is dropped
// but the request itself is left to finish. After Close no result is
// applied.
type Resource[T any] struct {
	getter Getter

	mu      sync.Mutex
	alive   bool
	started bool
	gen     uint64
	path    string
	state   State[T]
	done    chan struct{}
}

func NewResource[T any](getter Getter) *Resource[T] {
	return &Resource[T]{
		getter: getter,
		alive:  true,
		state:  State[T]{Loading: true},
		done:   make(chan struct{}),
	}
}

// Load starts a cycle for path unless the current cycle is already for path.
func (r *Resource[T]) Load(ctx context.Context, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.alive {
		return
	}
	if r.started && r.path == path {
		return
	}
	if !r.started {
		close(r.done)
	}

	r.started = true
	r.gen++
	r.path = path
	r.state = State[T]{Loading: true}
	done := make(chan struct{})
	r.done = done

	go r.fetch(ctx, r.gen, path, done)
}

func (r *Resource[T]) fetch(ctx context.Context, gen uint64, path string, done chan struct{}) {
	defer close(done)

	var data T
	err := r.getter.Get(ctx, path, &data)

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.alive || gen != r.gen {
		return
	}
	if err != nil {
		r.state = State[T]{Err: err}
		return
	}
	r.state = State[T]{Data: data}
}

func (r *Resource[T]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Wait blocks until the current cycle settles, the resource is closed or
// ctx is done.
func (r *Resource[T]) Wait(ctx context.Context) (State[T], error) {
	for {
		r.mu.Lock()
		done, gen := r.done, r.gen
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return r.State(), ctx.Err()
		case <-done:
		}

		r.mu.Lock()
		if gen == r.gen || !r.alive {
			st := r.state
			r.mu.Unlock()
			return st, nil
		}
		r.mu.Unlock()
	}
}

// Close marks the owner as gone. Results that arrive later are dropped.
func (r *Resource[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.alive {
		return
	}
	r.alive = false
	if !r.started {
		close(r.done)
	}
}
