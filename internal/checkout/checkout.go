package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
)

// DefaultDelay is how long the simulated order processing takes.
const DefaultDelay = 2 * time.Second

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrMissingField       = errors.New("required field is missing")
	ErrCheckoutInProgress = errors.New("a checkout is already in progress")
)

// ProcessFunc is the extension point for a real processing boundary
// (payment, stock). It runs after the simulated delay; an error aborts the
// submission before any store is mutated, returning the caller to the form
// with the cart intact. The default processor always succeeds.
type ProcessFunc func(ctx context.Context, draft order.Draft) error

// Service drives a checkout submission: validate the customer fields, hold
// the processing flag through the simulated delay, then place the order and
// clear the cart.
type Service struct {
	carts  *cart.Store
	orders *order.Store
	delay  time.Duration

	process ProcessFunc

	mu         sync.Mutex
	processing bool
}

func NewService(carts *cart.Store, orders *order.Store, delay time.Duration) *Service {
	return &Service{
		carts:  carts,
		orders: orders,
		delay:  delay,
	}
}

// SetProcessor installs a ProcessFunc. Passing nil restores the default
// always-succeeding simulated processor.
func (s *Service) SetProcessor(fn ProcessFunc) {
	s.process = fn
}

// Processing reports whether a submission is currently in flight.
func (s *Service) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// Submit runs one checkout. While it is in flight, further submissions are
// rejected with ErrCheckoutInProgress. The simulated delay is waited out
// without holding any store lock and respects ctx cancellation.
func (s *Service) Submit(ctx context.Context, customer order.Customer) (order.Order, error) {
	if err := validate(customer); err != nil {
		return order.Order{}, err
	}

	state := s.carts.Current()
	if len(state.Items) == 0 {
		return order.Order{}, ErrEmptyCart
	}

	s.mu.Lock()
	if s.processing {
		s.mu.Unlock()
		return order.Order{}, ErrCheckoutInProgress
	}
	s.processing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.processing = false
		s.mu.Unlock()
	}()

	// Simulated order processing
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return order.Order{}, ctx.Err()
	}

	draft := order.Draft{
		Items:    state.Items,
		Total:    state.GrandTotal(),
		Customer: customer,
	}

	if s.process != nil {
		if err := s.process(ctx, draft); err != nil {
			return order.Order{}, fmt.Errorf("order processing failed: %w", err)
		}
	}

	placed, err := s.orders.Place(draft)
	if err != nil {
		return order.Order{}, err
	}

	// Two independent persisted writes; not atomic as a pair.
	s.carts.Clear()

	log.Printf("[Checkout] Order %s placed, total %.2f", placed.ID, placed.Total)
	return placed, nil
}

func validate(c order.Customer) error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", c.Name},
		{"email", c.Email},
		{"phone", c.Phone},
		{"address", c.Address},
		{"city", c.City},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	return nil
}
