package cart

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	domcart "example.com/storefront/app/internal/domain/cart"
	domproduct "example.com/storefront/app/internal/domain/product"
	"example.com/storefront/app/pkg/fetch"
)

const DefaultKeyPrefix = "cart:"

type ViewItem struct {
	domcart.LineItem
	Name      string
	Image     string
	Price     float64
	Size      int
	LineTotal float64
}

type View struct {
	Items     []ViewItem
	ItemCount int
	Total     float64
}

type session struct {
	store    *Store
	products *fetch.Batch[domproduct.Product]
	lastUsed time.Time
}

// Service keeps one Store per shopper, persisted under keyPrefix+shopperID.
type Service struct {
	repo      domcart.Repository
	codec     Codec
	products  fetch.Getter
	keyPrefix string
	storeOpts []StoreOpt
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
	evicting map[string]chan struct{}
	closed   bool
}

type ServiceOpt func(*Service)

func WithClock(now func() time.Time) ServiceOpt {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithKeyPrefix(prefix string) ServiceOpt {
	return func(s *Service) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

func WithStoreOpts(opts ...StoreOpt) ServiceOpt {
	return func(s *Service) {
		s.storeOpts = append(s.storeOpts, opts...)
	}
}

func NewService(repo domcart.Repository, codec Codec, products fetch.Getter, opts ...ServiceOpt) *Service {
	s := &Service{
		repo:      repo,
		codec:     codec,
		products:  products,
		keyPrefix: DefaultKeyPrefix,
		now:       time.Now,
		sessions:  make(map[string]*session),
		evicting:  make(map[string]chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) session(ctx context.Context, shopperID string) (*session, error) {
	s.mu.Lock()
	for {
		if s.closed {
			s.mu.Unlock()
			return nil, ErrStoreClosed
		}
		if sess, ok := s.sessions[shopperID]; ok {
			sess.lastUsed = s.now()
			s.mu.Unlock()
			return sess, nil
		}
		flushed, ok := s.evicting[shopperID]
		if !ok {
			break
		}
		// Restoring before the evicted store has flushed would read a
		// stale snapshot.
		s.mu.Unlock()
		select {
		case <-flushed:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		s.mu.Lock()
	}
	defer s.mu.Unlock()

	store, err := NewStore(ctx, s.keyPrefix+shopperID, s.repo, s.codec, s.storeOpts...)
	if err != nil {
		return nil, err
	}
	sess := &session{
		store:    store,
		products: fetch.NewBatch[domproduct.Product](s.products),
		lastUsed: s.now(),
	}
	s.sessions[shopperID] = sess
	return sess, nil
}

func (s *Service) dispatch(ctx context.Context, op, shopperID string, a domcart.Action) (domcart.Cart, error) {
	for {
		sess, err := s.session(ctx, shopperID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		c, err := sess.store.Dispatch(a)
		if errors.Is(err, ErrStoreClosed) && s.evicted(shopperID, sess) {
			// The session was evicted between lookup and dispatch; its
			// next session restores from the flushed snapshot.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return c, nil
	}
}

// evicted reports whether sess is no longer the shopper's live session
// while the service itself is still open.
func (s *Service) evicted(shopperID string, sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.sessions[shopperID] != sess
}

func (s *Service) Get(ctx context.Context, shopperID string) (domcart.Cart, error) {
	const op = "cart.Service.Get"

	sess, err := s.session(ctx, shopperID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sess.store.Cart(), nil
}

func (s *Service) Add(ctx context.Context, shopperID, productID, sku string) (domcart.Cart, error) {
	const op = "cart.Service.Add"

	if sku == "" {
		return nil, fmt.Errorf("%s: %w", op, domcart.ErrInvalidLineItem)
	}
	id, err := canonicalProductID(productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.dispatch(ctx, op, shopperID, domcart.Add(id, sku))
}

func (s *Service) UpdateQuantity(ctx context.Context, shopperID, sku string, quantity int) (domcart.Cart, error) {
	const op = "cart.Service.UpdateQuantity"

	if quantity < 0 || quantity > domcart.MaxQuantity {
		return nil, fmt.Errorf("%s: %w", op, domcart.ErrInvalidQuantity)
	}
	return s.dispatch(ctx, op, shopperID, domcart.UpdateQuantity(sku, quantity))
}

// canonicalProductID renders a product id the way product data carries it,
// so "01" and "1" name the same line.
func canonicalProductID(productID string) (string, error) {
	id, err := strconv.ParseInt(productID, 10, 64)
	if err != nil || id <= 0 {
		return "", domcart.ErrInvalidLineItem
	}
	return strconv.FormatInt(id, 10), nil
}

func (s *Service) Empty(ctx context.Context, shopperID string) error {
	const op = "cart.Service.Empty"

	_, err := s.dispatch(ctx, op, shopperID, domcart.Empty())
	return err
}

// View joins the cart lines with product data from upstream. The product
// list is requested once per distinct cart content; repeated views of an
// unchanged cart reuse the last result.
func (s *Service) View(ctx context.Context, shopperID string) (*View, error) {
	const op = "cart.Service.View"

	for {
		sess, err := s.session(ctx, shopperID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		c := sess.store.Cart()
		paths := make([]string, len(c))
		for i, item := range c {
			paths[i] = domproduct.Path(item.ProductID)
		}

		// The batch outlives this request, so its requests must not be tied
		// to the request's cancellation.
		batch := s.productsOf(sess)
		batch.Load(context.WithoutCancel(ctx), paths)
		st, err := batch.Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if s.evicted(shopperID, sess) {
			// The batch was closed mid-cycle and its result dropped.
			continue
		}
		if st.Err != nil {
			s.resetProducts(sess, batch)
			return nil, fmt.Errorf("%s: %w", op, st.Err)
		}

		return buildView(c, st.Data)
	}
}

func (s *Service) productsOf(sess *session) *fetch.Batch[domproduct.Product] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sess.products
}

// resetProducts drops a failed batch so the next view asks upstream again.
func (s *Service) resetProducts(sess *session, failed *fetch.Batch[domproduct.Product]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.products != failed {
		return
	}
	failed.Close()
	sess.products = fetch.NewBatch[domproduct.Product](s.products)
}

func buildView(c domcart.Cart, products []domproduct.Product) (*View, error) {
	byID := make(map[string]domproduct.Product, len(products))
	for _, p := range products {
		byID[strconv.FormatInt(p.ID, 10)] = p
	}

	view := &View{
		Items:     make([]ViewItem, 0, len(c)),
		ItemCount: c.ItemCount(),
	}
	for _, item := range c {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, domproduct.ErrProductNotFound)
		}
		sku, _ := p.FindSKU(item.SKU)
		line := ViewItem{
			LineItem:  item,
			Name:      p.Name,
			Image:     p.Image,
			Price:     p.Price,
			Size:      sku.Size,
			LineTotal: p.Price * float64(item.Quantity),
		}
		view.Total += line.LineTotal
		view.Items = append(view.Items, line)
	}
	return view, nil
}

// EvictIdle closes the sessions not used for at least idle, flushing their
// snapshots. The next request of an evicted shopper restores the cart from
// the repository. It returns the number of sessions evicted.
func (s *Service) EvictIdle(ctx context.Context, idle time.Duration) (int, error) {
	const op = "cart.Service.EvictIdle"

	s.mu.Lock()
	cutoff := s.now().Add(-idle)
	stale := make(map[string]*session)
	for id, sess := range s.sessions {
		if sess.lastUsed.After(cutoff) {
			continue
		}
		stale[id] = sess
		delete(s.sessions, id)
		s.evicting[id] = make(chan struct{})
	}
	s.mu.Unlock()

	var errs []error
	for id, sess := range stale {
		sess.products.Close()
		if err := sess.store.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shopper %s: %w", id, err))
		}

		s.mu.Lock()
		close(s.evicting[id])
		delete(s.evicting, id)
		s.mu.Unlock()
	}
	if err := errors.Join(errs...); err != nil {
		return len(stale), fmt.Errorf("%s: %w", op, err)
	}
	return len(stale), nil
}

// Close closes every shopper store, flushing pending snapshots. Later calls
// fail with ErrStoreClosed.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.closed = true
	s.mu.Unlock()

	return closeSessions(ctx, sessions)
}

func closeSessions(ctx context.Context, sessions map[string]*session) error {
	var errs []error
	for id, sess := range sessions {
		sess.products.Close()
		if err := sess.store.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shopper %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
