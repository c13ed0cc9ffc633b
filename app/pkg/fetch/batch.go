package fetch

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

type BatchState[T any] struct {
	Data    []T
	Loading bool
	Err     error
}

// Batch fetches a list of resource paths concurrently. The cycle succeeds
// when every request succeeds and fails with the first error. Data is
// ordered like the paths.
//
// Loading a list equal to the previously issued one is a no-op, so callers
// may rebuild the list on every render.
type Batch[T any] struct {
	getter Getter

	mu      sync.Mutex
	alive   bool
	started bool
	gen     uint64
	paths   []string
	state   BatchState[T]
	done    chan struct{}
}

func NewBatch[T any](getter Getter) *Batch[T] {
	return &Batch[T]{
		getter: getter,
		alive:  true,
		state:  BatchState[T]{Loading: true},
		done:   make(chan struct{}),
	}
}

// Load starts a new cycle and reports true, or reports false when paths
// equals the last issued list (or the batch is closed) and leaves the
// state as it is.
//
// The first Load always starts a cycle; an empty list settles at once
// with empty data.
func (b *Batch[T]) Load(ctx context.Context, paths []string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.alive {
		return false
	}
	if b.started && slices.Equal(b.paths, paths) {
		return false
	}
	if !b.started {
		close(b.done)
	}

	b.started = true
	b.gen++
	b.paths = slices.Clone(paths)
	done := make(chan struct{})
	b.done = done

	if len(paths) == 0 {
		b.state = BatchState[T]{Data: []T{}}
		close(done)
		return true
	}

	b.state = BatchState[T]{Loading: true}
	go b.fetchAll(ctx, b.gen, b.paths, done)
	return true
}

func (b *Batch[T]) fetchAll(ctx context.Context, gen uint64, paths []string, done chan struct{}) {
	defer close(done)

	// A failed request does not cancel its siblings; the batch settles once
	// every request has finished and reports the first failure.
	results := make([]T, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		g.Go(func() error {
			return b.getter.Get(ctx, path, &results[i])
		})
	}
	err := g.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.alive || gen != b.gen {
		return
	}
	if err != nil {
		b.state = BatchState[T]{Err: err}
		return
	}
	b.state = BatchState[T]{Data: results}
}

func (b *Batch[T]) State() BatchState[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Batch[T]) Wait(ctx context.Context) (BatchState[T], error) {
	for {
		b.mu.Lock()
		done, gen := b.done, b.gen
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return b.State(), ctx.Err()
		case <-done:
		}

		b.mu.Lock()
		if gen == b.gen || !b.alive {
			st := b.state
			b.mu.Unlock()
			return st, nil
		}
		b.mu.Unlock()
	}
}

func (b *Batch[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.alive {
		return
	}
	b.alive = false
	if !b.started {
		close(b.done)
	}
}
