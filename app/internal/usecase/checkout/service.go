package checkout

import (
	"sync"
	"time"

	domcheckout "example.com/storefront/app/internal/domain/checkout"
	domshipping "example.com/storefront/app/internal/domain/shipping"
)

type formEntry struct {
	form     *Form
	lastUsed time.Time
}

type Service struct {
	saver domshipping.Saver
	cart  CartEmptier
	now   func() time.Time

	mu    sync.Mutex
	forms map[string]*formEntry
}

type ServiceOpt func(*Service)

func WithClock(now func() time.Time) ServiceOpt {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(saver domshipping.Saver, cart CartEmptier, opts ...ServiceOpt) *Service {
	s := &Service{
		saver: saver,
		cart:  cart,
		now:   time.Now,
		forms: make(map[string]*formEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Form returns the shopper's checkout form, creating it on first use.
func (s *Service) Form(shopperID string) *Form {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.forms[shopperID]
	if !ok {
		e = &formEntry{form: NewForm(shopperID, s.saver, s.cart)}
		s.forms[shopperID] = e
	}
	e.lastUsed = s.now()
	return e.form
}

// Restart drops the shopper's form so the next checkout starts IDLE.
func (s *Service) Restart(shopperID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.forms, shopperID)
}

// EvictIdle drops forms not used for at least idle. Forms in the middle of
// a submission are kept. It returns the number of forms dropped.
func (s *Service) EvictIdle(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	n := 0
	for id, e := range s.forms {
		if e.lastUsed.After(cutoff) || e.form.State().Status == domcheckout.StatusSubmitting {
			continue
		}
		delete(s.forms, id)
		n++
	}
	return n
}
