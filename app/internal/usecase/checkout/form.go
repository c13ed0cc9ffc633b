package checkout

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/go-playground/validator/v10"

	domcheckout "example.com/storefront/app/internal/domain/checkout"
	domshipping "example.com/storefront/app/internal/domain/shipping"
)

type CartEmptier interface {
	Empty(ctx context.Context, shopperID string) error
}

type State struct {
	Status  domcheckout.Status
	Address domshipping.Address
	Touched map[domcheckout.Field]bool
	// Errors holds the messages the shopper should see: those of touched
	// fields, or all of them once a submit found the address invalid.
	Errors    map[domcheckout.Field]string
	Valid     bool
	SaveError error
}

// Form is the shipping form of one shopper's checkout.
type Form struct {
	shopperID string
	saver     domshipping.Saver
	cart      CartEmptier
	validate  *validator.Validate

	mu      sync.Mutex
	address domshipping.Address
	touched map[domcheckout.Field]bool
	status  domcheckout.Status
	saveErr error
}

func NewForm(shopperID string, saver domshipping.Saver, cart CartEmptier) *Form {
	return &Form{
		shopperID: shopperID,
		saver:     saver,
		cart:      cart,
		validate:  newValidator(),
		touched:   make(map[domcheckout.Field]bool),
		status:    domcheckout.StatusIdle,
	}
}

func (f *Form) Change(field domcheckout.Field, value string) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case domcheckout.FieldCity:
		f.address.City = value
	case domcheckout.FieldCountry:
		f.address.Country = value
	default:
		return f.stateLocked(), fmt.Errorf("%w: %q", domcheckout.ErrUnknownField, field)
	}
	return f.stateLocked(), nil
}

// Touch marks field as visited, which makes its error visible.
func (f *Form) Touch(field domcheckout.Field) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !field.IsValid() {
		return f.stateLocked(), fmt.Errorf("%w: %q", domcheckout.ErrUnknownField, field)
	}
	f.touched[field] = true
	return f.stateLocked(), nil
}

// Errors validates the current address. The result is never cached.
func (f *Form) Errors() map[domcheckout.Field]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return addressErrors(f.validate, f.address)
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateLocked()
}

func (f *Form) stateLocked() State {
	all := addressErrors(f.validate, f.address)
	visible := make(map[domcheckout.Field]string, len(all))
	for field, msg := range all {
		if f.touched[field] || f.status == domcheckout.StatusSubmitted {
			visible[field] = msg
		}
	}
	return State{
		Status:    f.status,
		Address:   f.address,
		Touched:   maps.Clone(f.touched),
		Errors:    visible,
		Valid:     len(all) == 0,
		SaveError: f.saveErr,
	}
}

// Submit validates the address and, when it is valid, saves it and empties
// the cart. An invalid address is not an error: the form moves to
// SUBMITTED and the returned state carries the messages. A failed save is
// returned to the caller and the form goes back to IDLE.
func (f *Form) Submit(ctx context.Context) (State, error) {
	const op = "checkout.Form.Submit"

	f.mu.Lock()
	switch f.status {
	case domcheckout.StatusSubmitting:
		st := f.stateLocked()
		f.mu.Unlock()
		return st, fmt.Errorf("%s: %w", op, domcheckout.ErrSubmitInProgress)
	case domcheckout.StatusCompleted:
		st := f.stateLocked()
		f.mu.Unlock()
		return st, fmt.Errorf("%s: %w", op, domcheckout.ErrCheckoutCompleted)
	}

	f.status = domcheckout.StatusSubmitting
	f.saveErr = nil
	if len(addressErrors(f.validate, f.address)) > 0 {
		f.status = domcheckout.StatusSubmitted
		st := f.stateLocked()
		f.mu.Unlock()
		return st, nil
	}
	addr := f.address
	f.mu.Unlock()

	err := f.saver.Save(ctx, addr)
	if err == nil {
		err = f.cart.Empty(ctx, f.shopperID)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.status = domcheckout.StatusIdle
		f.saveErr = err
		return f.stateLocked(), fmt.Errorf("%s: %w", op, err)
	}
	f.status = domcheckout.StatusCompleted
	return f.stateLocked(), nil
}
