package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

var errBoom = errors.New("boom")

// fakeGetter serves canned JSON per path. Paths listed in gates block
// until their channel is closed.
type fakeGetter struct {
	mu     sync.Mutex
	bodies map[string]string
	errs   map[string]error
	gates  map[string]chan struct{}
	calls  []string
}

func newFakeGetter() *fakeGetter {
	return &fakeGetter{
		bodies: make(map[string]string),
		errs:   make(map[string]error),
		gates:  make(map[string]chan struct{}),
	}
}

func (f *fakeGetter) gate(path string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[path] = ch
	return ch
}

func (f *fakeGetter) Get(ctx context.Context, path string, dst any) error {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	gate := f.gates[path]
	body, ok := f.bodies[path]
	err := f.errs[path]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return err
	}
	if !ok {
		return &ResponseError{Method: "GET", URL: path, StatusCode: 404, Status: "404 Not Found"}
	}
	return json.Unmarshal([]byte(body), dst)
}

func (f *fakeGetter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
