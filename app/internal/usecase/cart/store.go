package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domcart "example.com/storefront/app/internal/domain/cart"
)

const defaultWriteTimeout = 5 * time.Second

var ErrStoreClosed = errors.New("cart store is closed")

type Codec interface {
	Marshal(c domcart.Cart) ([]byte, error)
	Unmarshal(data []byte) (domcart.Cart, error)
}

// Store owns one cart. Every dispatched action goes through the reducer
// and the resulting snapshot is written to the repository in the
// background. Writes are done by a single goroutine, so only the latest
// snapshot is ever written last.
type Store struct {
	key          string
	repo         domcart.Repository
	codec        Codec
	writeTimeout time.Duration

	mu     sync.Mutex
	cart   domcart.Cart
	dirty  bool
	closed bool

	notify  chan struct{}
	stopped chan struct{}
}

type StoreOpt func(*Store)

func WithWriteTimeout(d time.Duration) StoreOpt {
	return func(s *Store) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

// NewStore reads the snapshot stored under key once. A missing snapshot
// gives an empty cart, and so does one that cannot be decoded or breaks
// the cart invariants.
func NewStore(
	ctx context.Context,
	key string,
	repo domcart.Repository,
	codec Codec,
	opts ...StoreOpt,
) (*Store, error) {
	const op = "cart.NewStore"

	s := &Store{
		key:          key,
		repo:         repo,
		codec:        codec,
		writeTimeout: defaultWriteTimeout,
		notify:       make(chan struct{}, 1),
		stopped:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	initial, err := s.restore(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.cart = initial

	go s.runWriter()
	return s, nil
}

func (s *Store) restore(ctx context.Context) (domcart.Cart, error) {
	const op = "cart.Store.restore"
	log := slog.With("op", op, "key", s.key)

	data, err := s.repo.Get(ctx, s.key)
	if errors.Is(err, domcart.ErrSnapshotNotFound) {
		return domcart.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}

	c, err := s.codec.Unmarshal(data)
	if err == nil {
		err = c.Validate()
	}
	if err != nil {
		log.Warn("cart snapshot could not be parsed, starting with an empty cart", "err", err)
		return domcart.Cart{}, nil
	}
	return c, nil
}

// Dispatch applies a and schedules the new snapshot for persistence.
// It panics like domcart.Reduce on an unknown action type.
func (s *Store) Dispatch(a domcart.Action) (domcart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	s.cart = domcart.Reduce(s.cart, a)
	s.dirty = true
	select {
	case s.notify <- struct{}{}:
	default:
	}
	return s.cart.Clone(), nil
}

func (s *Store) Cart() domcart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Close writes the pending snapshot, if any, and stops the writer.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.notify)

	select {
	case <-s.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) runWriter() {
	defer close(s.stopped)

	for range s.notify {
		s.flush()
	}
	s.flush()
}

func (s *Store) flush() {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return
	}
	snapshot := s.cart
	s.dirty = false
	s.mu.Unlock()

	s.persist(snapshot)
}

func (s *Store) persist(c domcart.Cart) {
	const op = "cart.Store.persist"
	log := slog.With("op", op, "key", s.key)

	data, err := s.codec.Marshal(c)
	if err != nil {
		log.Error("failed to encode cart snapshot", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	if err := s.repo.Set(ctx, s.key, data); err != nil {
		log.Error("failed to persist cart snapshot", "err", err)
		return
	}
	log.Debug("cart snapshot persisted", "items", len(c))
}
